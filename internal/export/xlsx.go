// Package export renders a finished question paper to an Excel workbook:
// one sheet for the questions and, when the rules ask for it, one for the
// answer key.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/examforge/examforge/internal/paper"
)

const (
	questionsSheet = "Questions"
	answerSheet    = "Answer Key"
)

// WriteXLSX writes the paper as an .xlsx workbook to w.
func WriteXLSX(w io.Writer, p paper.Paper) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", questionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeQuestions(f, p); err != nil {
		return err
	}

	if p.Rules.IncludeAnswerKey {
		if _, err := f.NewSheet(answerSheet); err != nil {
			return fmt.Errorf("create answer sheet: %w", err)
		}
		if err := writeAnswerKey(f, p); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeQuestions(f *excelize.File, p paper.Paper) error {
	rows := [][]any{
		{p.CourseName},
		{fmt.Sprintf("Total: %d questions, %d marks", p.TotalQuestions, p.TotalMarks)},
		{},
		{"#", "Unit", "Question", "Type", "Marks", "Difficulty", "CO", "BL", "Options"},
	}
	for i, q := range p.Questions {
		rows = append(rows, []any{
			i + 1,
			q.UnitTitle,
			q.Text,
			string(q.Type),
			q.Marks,
			string(q.Difficulty),
			q.CourseOutcome,
			q.BloomsLevel,
			strings.Join(q.Options, "\n"),
		})
	}
	return writeRows(f, questionsSheet, rows)
}

func writeAnswerKey(f *excelize.File, p paper.Paper) error {
	rows := [][]any{
		{"#", "Question", "Correct Answer", "Explanation", "Source"},
	}
	for i, q := range p.Questions {
		rows = append(rows, []any{
			i + 1,
			q.Text,
			q.CorrectAnswer,
			q.Explanation,
			string(q.Provenance),
		})
	}
	return writeRows(f, answerSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}
