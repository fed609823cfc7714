package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/fixture"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/ledger"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/pdftext"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/sheet"
	"github.com/FACorreiaa/statement-converter/pkg/metrics"
)

// MockExtractor serves page texts keyed by file base name.
type MockExtractor struct {
	mu    sync.Mutex
	pages map[string][]string
	errs  map[string]error
	calls int
}

func (m *MockExtractor) ExtractFile(ctx context.Context, path string) ([]pdftext.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	name := filepath.Base(path)
	if err := m.errs[name]; err != nil {
		return nil, err
	}
	texts, ok := m.pages[name]
	if !ok {
		return nil, pdftext.ErrUnreadable
	}
	pages := make([]pdftext.Page, len(texts))
	for i, t := range texts {
		pages[i] = pdftext.Page{Number: i + 1, Text: t}
	}
	return pages, nil
}

const septemberPage = `Wyciąg nr 9/2025
1 15.09.2025 ACME -1 579,00 PLN 23 421,00 PLN
61 1090 1014 0000 0000 0000 0000 Faktura 12/2025
2 01.09.2025 Jan Kowalski 18 000,00 PLN 41 421,00 PLN
Wynagrodzenie`

const octoberPage = `1 03.10.2025 Sklep ABC 45,99 PLN
Dokument wygenerowany elektronicznie`

func newTestService(t *testing.T, ext *MockExtractor, format sheet.Format) (*Service, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(ext, parser.MustNew(parser.DefaultLayout()), format, m, logger), m
}

// touch creates empty files; the mock extractor supplies their text.
func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}

func TestService_ConvertFile(t *testing.T) {
	dir := t.TempDir()
	ext := &MockExtractor{pages: map[string][]string{"wyciag.pdf": {septemberPage, ""}}}
	svc, m := newTestService(t, ext, sheet.FormatXLSX)

	src := filepath.Join(dir, "wyciag.pdf")
	res, err := svc.ConvertFile(context.Background(), src, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "wyciag.xlsx"), res.Output)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 1, res.EmptyPages)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, int64(1800000), res.Totals.Inflow.Amount())
	assert.Equal(t, int64(-157900), res.Totals.Outflow.Amount())

	records, err := sheet.OpenXLSX(res.Output)
	require.NoError(t, err)
	assert.Equal(t, []statement.Record{
		{Date: "15.09.2025", Counterparty: "ACME / 61109010140000000000000000", Description: "Faktura 12/2025", Amount: "-1579,00"},
		{Date: "01.09.2025", Counterparty: "Jan Kowalski", Description: "", Amount: "18000,00"},
	}, records)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents(metrics.StatusConverted)))
}

func TestService_ConvertFileExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	ext := &MockExtractor{pages: map[string][]string{"a.pdf": {octoberPage}}}
	svc, _ := newTestService(t, ext, sheet.FormatXLSX)

	dst := filepath.Join(dir, "out", "a.csv")
	_, err := svc.ConvertFile(context.Background(), filepath.Join(dir, "a.pdf"), dst)
	require.NoError(t, err)

	records, err := sheet.OpenCSV(dst)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "45,99", records[0].Amount)
}

func TestService_ConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	ext := &MockExtractor{
		pages: map[string][]string{"empty.pdf": {"Strona 1 z 1", ""}},
		errs:  map[string]error{"broken.pdf": pdftext.ErrUnreadable},
	}
	svc, m := newTestService(t, ext, sheet.FormatXLSX)

	t.Run("no transactions writes nothing", func(t *testing.T) {
		res, err := svc.ConvertFile(context.Background(), filepath.Join(dir, "empty.pdf"), "")
		assert.ErrorIs(t, err, ErrNoTransactions)
		require.NotNil(t, res)
		assert.Equal(t, 2, res.Pages)

		_, statErr := os.Stat(filepath.Join(dir, "empty.xlsx"))
		assert.True(t, os.IsNotExist(statErr))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents(metrics.StatusNoTransactions)))
	})

	t.Run("unreadable pdf", func(t *testing.T) {
		_, err := svc.ConvertFile(context.Background(), filepath.Join(dir, "broken.pdf"), "")
		assert.ErrorIs(t, err, pdftext.ErrUnreadable)
		assert.False(t, errors.Is(err, ErrNoTransactions))
	})

	t.Run("not a pdf", func(t *testing.T) {
		_, err := svc.ConvertFile(context.Background(), filepath.Join(dir, "notes.txt"), "")
		assert.ErrorIs(t, err, ErrNotPDF)
	})
}

func TestService_ConvertBatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_october.pdf", "a_september.pdf", "c_broken.pdf", "d_empty.PDF", "notes.txt")
	ext := &MockExtractor{
		pages: map[string][]string{
			"a_september.pdf": {septemberPage},
			"b_october.pdf":   {octoberPage},
			"d_empty.PDF":     {""},
		},
		errs: map[string]error{"c_broken.pdf": pdftext.ErrUnreadable},
	}
	svc, _ := newTestService(t, ext, sheet.FormatXLSX)

	res, err := svc.ConvertBatch(context.Background(), dir, BatchOptions{Workers: 3, Merge: true})
	require.NoError(t, err)

	require.Len(t, res.Documents, 4)
	assert.Equal(t, filepath.Join(dir, "a_september.pdf"), res.Documents[0].Source)
	assert.Equal(t, filepath.Join(dir, "d_empty.PDF"), res.Documents[3].Source)
	assert.True(t, res.Documents[0].OK())
	assert.ErrorIs(t, res.Documents[2].Err, pdftext.ErrUnreadable)
	assert.ErrorIs(t, res.Documents[3].Err, ErrNoTransactions)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, "Summary: 2 successful, 2 failed", res.Summary())
	assert.NotEmpty(t, res.RunID)

	assert.FileExists(t, filepath.Join(dir, "a_september.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "b_october.xlsx"))

	assert.Equal(t, filepath.Join(dir, DefaultCombinedName), res.MergeOutput)
	assert.Equal(t, 3, res.Merged)
	assert.True(t, res.MergeSorted)

	merged, err := sheet.OpenXLSX(res.MergeOutput)
	require.NoError(t, err)
	dates := make([]string, len(merged))
	for i, r := range merged {
		dates[i] = r.Date
	}
	assert.Equal(t, []string{"01.09.2025", "15.09.2025", "03.10.2025"}, dates)
}

func TestService_ConvertBatchWithoutMerge(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	ext := &MockExtractor{pages: map[string][]string{"a.pdf": {octoberPage}}}
	svc, _ := newTestService(t, ext, sheet.FormatCSV)

	res, err := svc.ConvertBatch(context.Background(), dir, BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Empty(t, res.MergeOutput)
	assert.FileExists(t, filepath.Join(dir, "a.csv"))
	assert.NoFileExists(t, filepath.Join(dir, DefaultCombinedName))
}

func TestService_ConvertBatchCancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf")
	ext := &MockExtractor{pages: map[string][]string{"a.pdf": {octoberPage}, "b.pdf": {octoberPage}}}
	svc, _ := newTestService(t, ext, sheet.FormatXLSX)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.ConvertBatch(ctx, dir, BatchOptions{Workers: 2, Merge: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
	assert.NoFileExists(t, filepath.Join(dir, "a.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, DefaultCombinedName))
}

func TestService_ConvertBatchAllFailed(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	svc, _ := newTestService(t, &MockExtractor{}, sheet.FormatXLSX)

	res, err := svc.ConvertBatch(context.Background(), dir, BatchOptions{Merge: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, res.MergeOutput)
}

func TestService_ConvertBatchNoDocuments(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")
	svc, _ := newTestService(t, &MockExtractor{}, sheet.FormatXLSX)

	_, err := svc.ConvertBatch(context.Background(), dir, BatchOptions{})
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = svc.ConvertBatch(context.Background(), filepath.Join(dir, "missing"), BatchOptions{})
	assert.Error(t, err)
}

func TestService_ConvertBatchGenerated(t *testing.T) {
	dir := t.TempDir()
	gen := fixture.NewGenerator(3)
	ext := &MockExtractor{pages: map[string][]string{}}
	var want int
	for _, name := range []string{"s1.pdf", "s2.pdf", "s3.pdf"} {
		st := gen.Statement(3, 6)
		ext.pages[name] = st.Pages
		want += len(st.Expected)
		touch(t, dir, name)
	}
	svc, _ := newTestService(t, ext, sheet.FormatXLSX)

	res, err := svc.ConvertBatch(context.Background(), dir, BatchOptions{Workers: 2, Merge: true, MergeOutput: filepath.Join(dir, "all.xlsx")})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Succeeded)
	assert.Equal(t, want, res.Merged)
}

func TestService_MergeFiles(t *testing.T) {
	dir := t.TempDir()
	svc, _ := newTestService(t, &MockExtractor{}, sheet.FormatXLSX)

	first := filepath.Join(dir, "first.xlsx")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, sheet.Save(first, []statement.Record{{Date: "10.09.2025", Amount: "1,00"}}))
	require.NoError(t, sheet.Save(second, []statement.Record{{Date: "02.09.2025", Amount: "2,00"}, {Date: "10.09.2025", Amount: "3,00"}}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.xlsx"), []byte("junk"), 0o644))

	dst := filepath.Join(dir, "merged.xlsx")
	n, err := svc.MergeFiles(context.Background(), []string{first, filepath.Join(dir, "junk.xlsx"), second}, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	merged, err := sheet.OpenXLSX(dst)
	require.NoError(t, err)
	assert.Equal(t, []statement.Record{
		{Date: "02.09.2025", Amount: "2,00"},
		{Date: "10.09.2025", Amount: "1,00"},
		{Date: "10.09.2025", Amount: "3,00"},
	}, merged)

	_, err = svc.MergeFiles(context.Background(), []string{filepath.Join(dir, "junk.xlsx")}, dst)
	assert.ErrorIs(t, err, ErrNothingToMerge)
}

func TestService_ProcessInbox(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "broken.pdf")
	ext := &MockExtractor{
		pages: map[string][]string{"a.pdf": {octoberPage}},
		errs:  map[string]error{"broken.pdf": pdftext.ErrUnreadable},
	}
	svc, m := newTestService(t, ext, sheet.FormatXLSX)

	l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	res, err := svc.ProcessInbox(context.Background(), dir, l)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Converted)
	assert.Equal(t, 1, res.Failed)
	assert.Zero(t, res.Skipped)

	entries, err := l.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	fp, err := ledger.Fingerprint(filepath.Join(dir, "a.pdf"))
	require.NoError(t, err)
	e, err := l.Get(fp)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Totals.Count)
	assert.Equal(t, "45,99 PLN", e.Totals.Net.Display())

	// Already processed files are skipped, failed ones included.
	res, err = svc.ProcessInbox(context.Background(), dir, l)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.Zero(t, res.Converted)
	assert.Equal(t, 2, ext.calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Documents(metrics.StatusSkipped)))

	// A replaced file is processed again.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("new version"), 0o644))
	res, err = svc.ProcessInbox(context.Background(), dir, l)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Converted)
	assert.Equal(t, 1, res.Skipped)
}

func TestService_ProcessInboxCancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	svc, _ := newTestService(t, &MockExtractor{pages: map[string][]string{"a.pdf": {octoberPage}}}, sheet.FormatXLSX)

	l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.ProcessInbox(ctx, dir, l)
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := l.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "dir/wyciag.xlsx", DefaultOutput("dir/wyciag.pdf", sheet.FormatXLSX))
	assert.Equal(t, "wyciag.csv", DefaultOutput("wyciag.PDF", sheet.FormatCSV))
	assert.True(t, IsPDF("a.Pdf"))
	assert.False(t, IsPDF("a.pdf.txt"))
}
