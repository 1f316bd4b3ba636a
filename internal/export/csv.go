package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ggorockee/leadmaps/internal/search"
)

// FileName is the download name offered for exported leads
const FileName = "leads.csv"

// Header is the fixed 14-column header row
var Header = []string{
	"ID", "상호명", "업종", "웹사이트", "도시", "우편번호", "전화번호", "이메일",
	"평점", "리뷰 수", "채용 중", "광고 집행", "신규 오픈", "점수",
}

const (
	yes = "예"
	no  = "아니오"
)

// WriteCSV writes the header and one line per row.
// Fields containing a comma, quote or newline are quoted with inner quotes doubled.
// encoding/csv also quotes a field with a leading space.
func WriteCSV(w io.Writer, rows []search.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV renders rows into an in-memory UTF-8 payload
func CSV(rows []search.ResultRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func record(r search.ResultRow) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.Name,
		r.Category,
		optional(r.Website),
		r.City,
		optional(r.PostalCode),
		optional(r.Phone),
		optional(r.Email),
		optionalFloat(r.Signals.Rating),
		optionalInt(r.Signals.Reviews),
		yesNo(r.Signals.Hiring),
		yesNo(r.Signals.Ads),
		yesNo(r.Signals.New),
		strconv.FormatFloat(r.Score, 'f', -1, 64),
	}
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func optionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}
