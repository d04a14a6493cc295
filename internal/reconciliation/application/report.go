package application

import (
	"bytes"
	"encoding/csv"
	"io"

	reconciliation "ticketshop/internal/reconciliation/domain"
)

// ReportFilename is the attachment name of the report download.
const ReportFilename = "uebersicht_kartenzahlungen"

// ReportLine is one reconciled reference code in the payments report.
type ReportLine struct {
	Kind          reconciliation.OutcomeKind
	Tag           string
	ReferenceCode string
	Description   string
}

// Report collects one line per classified outcome, in the order the codes
// were first seen in the statement.
type Report struct {
	Lines []ReportLine
}

func (r *Report) append(outcome reconciliation.Outcome) {
	r.Lines = append(r.Lines, ReportLine{
		Kind:          outcome.Kind,
		Tag:           outcome.Kind.Tag(),
		ReferenceCode: outcome.ReferenceCode,
		Description:   outcome.Description(),
	})
}

// WriteCSV writes the semicolon-delimited report with its German header row.
func (r *Report) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	if err := writer.Write([]string{"Fehlertyp", "Verwendungstext", "Beschreibung"}); err != nil {
		return err
	}
	for _, line := range r.Lines {
		if err := writer.Write([]string{line.Tag, line.ReferenceCode, line.Description}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVBytes renders the report as UTF-8 CSV bytes.
func (r *Report) CSVBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
