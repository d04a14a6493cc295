package reconciliation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	bookingDateLayout = "02.01.2006"

	columnBookingDate = "Buchungstag"
	columnMemo        = "Verwendungszweck"
	columnAmount      = "Betrag"

	cancellationPrefix = "Stornierung"

	// ReferenceCodeLength is the length of an order reference code as it
	// appears in transfer memo lines.
	ReferenceCodeLength = 8
)

// Transaction is one booked row of a bank statement.
type Transaction struct {
	BookingDate   time.Time
	Memo          string
	Amount        decimal.Decimal
	ReferenceCode string
}

// ParseStatement reads a semicolon-delimited bank statement export and
// returns one transaction per row. The header must contain the Buchungstag,
// Verwendungszweck and Betrag columns; dates use DD.MM.YYYY and amounts a
// decimal comma. A malformed date or amount aborts the whole parse, since a
// statement that cannot be read in full cannot be trusted in part.
func ParseStatement(r io.Reader) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatementHeader, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	dateIdx, ok := columns[columnBookingDate]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrStatementHeader, columnBookingDate)
	}
	memoIdx, ok := columns[columnMemo]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrStatementHeader, columnMemo)
	}
	amountIdx, ok := columns[columnAmount]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrStatementHeader, columnAmount)
	}

	var transactions []Transaction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		if len(record) <= dateIdx || len(record) <= memoIdx || len(record) <= amountIdx {
			return nil, fmt.Errorf("%w: line %d: short record", ErrMalformedRow, line)
		}

		bookingDate, err := time.Parse(bookingDateLayout, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: booking date %q", ErrMalformedRow, line, record[dateIdx])
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(record[amountIdx]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: amount %q", ErrMalformedRow, line, record[amountIdx])
		}

		memo := record[memoIdx]
		transactions = append(transactions, Transaction{
			BookingDate:   bookingDate,
			Memo:          memo,
			Amount:        amount,
			ReferenceCode: ExtractReferenceCode(memo),
		})
	}
	return transactions, nil
}

// ExtractReferenceCode pulls the order reference code out of a free-form
// transfer memo. Memos normally read "Karten XXXXXXXX" or
// "Stornierung Karten XXXXXXXX"; without any space the trailing eight
// characters of the trimmed memo are taken. Extraction never fails: a memo
// the heuristic cannot make sense of yields a code that simply matches no
// order downstream.
func ExtractReferenceCode(memo string) string {
	if strings.Contains(memo, " ") {
		parts := strings.Split(strings.TrimSpace(memo), " ")
		if parts[0] == cancellationPrefix {
			if len(parts) > 2 {
				return parts[2]
			}
			return ""
		}
		if len(parts) > 1 {
			return parts[1]
		}
		return parts[0]
	}

	trimmed := strings.TrimSpace(memo)
	if runes := []rune(trimmed); len(runes) > ReferenceCodeLength {
		trimmed = string(runes[len(runes)-ReferenceCodeLength:])
	}
	return strings.TrimSpace(trimmed)
}
