// importer/importer.go - Batch question import from xlsx workbooks
package importer

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"statboard/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	QuestionSheet = "Questions"
	AnswerSheet   = "Answers"
)

// Report summarizes one import run.
type Report struct {
	QuestionsCreated int
	QuestionsUpdated int
	QuestionsFailed  int
	AnswersCreated   int
	AnswersUpdated   int
	AnswersFailed    int
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"questions: %d created, %d updated, %d failed | answers: %d created, %d updated, %d failed",
		r.QuestionsCreated, r.QuestionsUpdated, r.QuestionsFailed,
		r.AnswersCreated, r.AnswersUpdated, r.AnswersFailed,
	)
}

// ImportFile opens the workbook at path and imports it into db.
func ImportFile(db *gorm.DB, path string) (*Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return Run(db, f)
}

// Run imports the Questions and Answers sheets of an open workbook.
// Rows are keyed by code: existing rows are updated, new ones created.
// The whole run happens in one transaction, but a bad row only fails
// itself: it is counted in the report and the remaining rows still
// commit.
func Run(db *gorm.DB, f *excelize.File) (*Report, error) {
	report := &Report{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := importQuestions(tx, f, report); err != nil {
			return err
		}
		return importAnswers(tx, f, report)
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

func importQuestions(tx *gorm.DB, f *excelize.File, report *Report) error {
	rows, err := f.GetRows(QuestionSheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", QuestionSheet, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %q is empty", QuestionSheet)
	}

	cols, err := headerIndex(rows[0], "code", "text", "category", "board_position")
	if err != nil {
		return fmt.Errorf("sheet %q: %w", QuestionSheet, err)
	}

	for i, row := range rows[1:] {
		line := i + 2

		code := cell(row, cols["code"])
		if !models.QuestionCodePattern.MatchString(code) {
			log.Printf("Row %d: invalid question code %q", line, code)
			report.QuestionsFailed++
			continue
		}

		position, err := strconv.Atoi(cell(row, cols["board_position"]))
		if err != nil || position < 0 || position > models.FinalBoardPosition {
			log.Printf("Row %d: question %s has invalid board position %q", line, code, cell(row, cols["board_position"]))
			report.QuestionsFailed++
			continue
		}

		text := cell(row, cols["text"])
		category := cell(row, cols["category"])
		if text == "" || category == "" {
			log.Printf("Row %d: question %s is missing text or category", line, code)
			report.QuestionsFailed++
			continue
		}

		var question models.Question
		result := tx.Where("code = ?", code).First(&question)
		created := errors.Is(result.Error, gorm.ErrRecordNotFound)

		question.Code = code
		question.Text = text
		question.Category = category
		question.BoardPosition = position
		question.Hint = cell(row, cols["hint"])
		question.Explanation = cell(row, cols["explanation"])
		question.ImagePath = cell(row, cols["image_path"])

		if err := tx.Save(&question).Error; err != nil {
			log.Printf("Row %d: failed to save question %s: %v", line, code, err)
			report.QuestionsFailed++
			continue
		}

		if created {
			report.QuestionsCreated++
		} else {
			report.QuestionsUpdated++
		}
	}

	return nil
}

func importAnswers(tx *gorm.DB, f *excelize.File, report *Report) error {
	rows, err := f.GetRows(AnswerSheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", AnswerSheet, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %q is empty", AnswerSheet)
	}

	cols, err := headerIndex(rows[0], "code", "text", "is_correct")
	if err != nil {
		return fmt.Errorf("sheet %q: %w", AnswerSheet, err)
	}

	// Codeless rows attach to the question of the preceding row, the
	// way answer sheets group options under their question.
	var lastQuestion *models.Question

	for i, row := range rows[1:] {
		line := i + 2

		code := cell(row, cols["code"])
		var question models.Question

		switch {
		case code == "":
			if lastQuestion == nil {
				log.Printf("Row %d: codeless answer with no preceding question", line)
				report.AnswersFailed++
				continue
			}
			question = *lastQuestion

			code, err = nextAnswerCode(tx, &question)
			if err != nil {
				log.Printf("Row %d: failed to assign answer code: %v", line, err)
				report.AnswersFailed++
				continue
			}
		case !models.AnswerCodePattern.MatchString(code):
			log.Printf("Row %d: invalid answer code %q", line, code)
			report.AnswersFailed++
			continue
		default:
			// R00101 belongs to P001
			questionCode := "P" + code[1:4]
			if err := tx.Where("code = ?", questionCode).First(&question).Error; err != nil {
				log.Printf("Row %d: no question %s for answer %s", line, questionCode, code)
				report.AnswersFailed++
				continue
			}
		}
		lastQuestion = &question

		text := cell(row, cols["text"])
		if text == "" {
			log.Printf("Row %d: answer %s has no text", line, code)
			report.AnswersFailed++
			continue
		}

		var answer models.AnswerOption
		result := tx.Where("code = ? AND question_id = ?", code, question.ID).First(&answer)
		created := errors.Is(result.Error, gorm.ErrRecordNotFound)

		answer.Code = code
		answer.QuestionID = question.ID
		answer.Text = text
		answer.IsCorrect = parseBool(cell(row, cols["is_correct"]))

		if err := tx.Save(&answer).Error; err != nil {
			log.Printf("Row %d: failed to save answer %s: %v", line, code, err)
			report.AnswersFailed++
			continue
		}

		if created {
			report.AnswersCreated++
		} else {
			report.AnswersUpdated++
		}
	}

	return nil
}

// nextAnswerCode generates the next sequential code for a question's
// answers: the question's three digits plus a two-digit sequence
// (P001 with two stored answers gets R00103).
func nextAnswerCode(tx *gorm.DB, question *models.Question) (string, error) {
	var count int64
	err := tx.Model(&models.AnswerOption{}).
		Where("question_id = ?", question.ID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("R%s%02d", question.Code[1:], count+1), nil
}

// headerIndex maps column names (lowercased) to their index. The
// required columns must all be present; optional ones map to -1 when
// missing.
func headerIndex(header []string, required ...string) (map[string]int, error) {
	cols := map[string]int{
		"code":           -1,
		"text":           -1,
		"category":       -1,
		"board_position": -1,
		"hint":           -1,
		"explanation":    -1,
		"image_path":     -1,
		"is_correct":     -1,
	}

	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range required {
		if cols[name] < 0 {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "x":
		return true
	}
	return false
}
