package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"salesreport/internal/config"
	apperrors "salesreport/internal/errors"
	"salesreport/pkg/contracts/domain"
)

var generatedAt = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func rec(date, customer, item string, market domain.Market, amount, qty int64) domain.SalesRecord {
	r := domain.SalesRecord{
		Customer:      customer,
		Item:          item,
		Brand:         strings.Fields(item)[0],
		CustomerGroup: "Unknown",
		Amount:        decimal.NewFromInt(amount),
		Quantity:      decimal.NewFromInt(qty),
		Market:        market,
		IsDummy:       strings.Contains(item, "월마감") || strings.Contains(item, "배송비"),
	}
	if date != "" {
		r.Date, _ = time.Parse("2006-01-02", date)
		r.Year = r.Date.Year()
		r.Month = int(r.Date.Month())
	}
	return r
}

// twoYearRecords is brand X with 1,000,000 in 2024 and 1,200,000 in 2025.
func twoYearRecords() []domain.SalesRecord {
	return []domain.SalesRecord{
		rec("2024-03-10", "국내상사", "X 크림 50ml", domain.MarketDomestic, 600_000, 60),
		rec("2024-07-01", "국내상사", "X 토너", domain.MarketDomestic, 400_000, 40),
		rec("2025-03-10", "국내상사", "X 크림 50ml", domain.MarketDomestic, 700_000, 100),
		rec("2025-08-20", "서울유통", "X 토너", domain.MarketDomestic, 500_000, 30),
	}
}

func render(t *testing.T, plan Plan, records []domain.SalesRecord, mutate ...func(*config.Config)) string {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(cfg)
	}
	rc, err := NewContext(records, cfg, generatedAt)
	require.NoError(t, err)
	out, err := plan.Render(rc)
	require.NoError(t, err)
	return out
}

func countTables(t *testing.T, md string) int {
	t.Helper()
	md2 := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md2.Parser().Parse(text.NewReader([]byte(md)))

	n := 0
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && node.Kind() == extast.KindTable {
			n++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return n
}

// section returns the text between the first from marker and the next until marker.
func section(s, from, until string) string {
	i := strings.Index(s, from)
	if i < 0 {
		return ""
	}
	rest := s[i:]
	if j := strings.Index(rest[len(from):], until); j >= 0 {
		return rest[:len(from)+j]
	}
	return rest
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234", currency(decimal.RequireFromString("1234.99")))
	assert.Equal(t, "-1,234", currency(decimal.RequireFromString("-1234.5")))
	assert.Equal(t, "1,000,000", currency(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "0", currency(decimal.Zero))
	assert.Equal(t, "+20.0%", growth(20))
	assert.Equal(t, "-50.0%", growth(-50))
	assert.Equal(t, "+0.0%", growth(0))
	assert.Equal(t, "33.3%", pct(100.0/3))
}

func TestMarkdownTable(t *testing.T) {
	out := markdownTable([]string{"Brand", "Revenue"}, [][]string{{"A|B", "1,000"}})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Brand")
	assert.Contains(t, lines[1], "---")
	assert.Contains(t, lines[2], `A\|B`, "pipes in cells are escaped")
	assert.Equal(t, 1, countTables(t, out))
}

func TestDocument_EmptyTableRendersPlaceholder(t *testing.T) {
	d := newDocument("No data available.")
	d.table([]string{"Brand", "Revenue"}, nil)
	assert.Equal(t, "_No data available._\n", d.String())
}

func TestNewContext_PeriodSelection(t *testing.T) {
	records := twoYearRecords()

	tests := []struct {
		name        string
		records     []domain.SalesRecord
		current     int
		base        int
		wantCurrent int
		wantBase    int
	}{
		{"both automatic", records, 0, 0, 2025, 2024},
		{"explicit current", records, 2024, 0, 2024, 2023},
		{"both explicit", records, 2025, 2022, 2025, 2022},
		{"explicit base before automatic current", records, 0, 2023, 2025, 2023},
		{"no dated records falls back to the clock", nil, 0, 0, 2026, 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.CurrentYear, cfg.BaseYear = tt.current, tt.base

			rc, err := NewContext(tt.records, cfg, generatedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, rc.CurrentYear)
			assert.Equal(t, tt.wantBase, rc.BaseYear)
		})
	}
}

func TestNewContext_BaseYearNotBeforeAutomaticCurrent(t *testing.T) {
	for _, base := range []int{2025, 2026} {
		cfg := config.Default()
		cfg.BaseYear = base

		rc, err := NewContext(twoYearRecords(), cfg, generatedAt)
		require.Error(t, err)
		assert.Nil(t, rc)
		assert.True(t, apperrors.IsConfig(err))
		assert.Contains(t, err.Error(), "must be before current_year 2025")
	}
}

func TestYoYPlan_EndToEndGrowth(t *testing.T) {
	out := render(t, YoYPlan{}, twoYearRecords())

	assert.Contains(t, out, "# 2024-2025년 매출 실적 상세 분석 보고서")
	assert.Contains(t, out, "- **2024년 총 매출:** 1,000,000 원")
	assert.Contains(t, out, "- **2025년 총 매출:** 1,200,000 원")
	assert.Contains(t, out, "- **성장률 (YoY):** +20.0%")
	assert.Contains(t, out, "- **매출:** 1,200,000 원 (YoY +20.0%)")
	assert.NotContains(t, out, "![", "no image refs without an image dir")
	assert.GreaterOrEqual(t, countTables(t, out), 5)
}

func TestYoYPlan_ImageRefs(t *testing.T) {
	out := render(t, YoYPlan{}, twoYearRecords(), func(c *config.Config) { c.ImageDir = "report_images" })

	assert.Contains(t, out, "![월별 매출 추이](report_images/monthly_trend.png)")
	assert.Contains(t, out, "![2025년 상위 브랜드](report_images/top_brands_2025.png)")
}

func TestDeepPlan_EndToEndGrowth(t *testing.T) {
	out := render(t, DeepPlan{}, twoYearRecords())

	assert.Contains(t, out, "### 2.1 [X]")
	assert.Contains(t, out, "**[X]**는 전년 대비 **+20.0%** 성장/하락하였습니다.")
	assert.Contains(t, out, "🚀 고성장(Star)")
	assert.NotContains(t, out, "🌏 수출주도형", "no export revenue in either year")
	assert.Contains(t, out, "**내수 시장 중심(100.0%)**")
	assert.Contains(t, out, "- 수출 실적 없음")
	assert.Contains(t, out, "+66.7% 🔥", "크림 volume 60 -> 100")
	assert.Contains(t, out, "-25.0% 📉", "토너 volume 40 -> 30")
}

func TestDeepPlan_DummyRows(t *testing.T) {
	records := append(twoYearRecords(),
		rec("2025-12-31", "국내상사", "X 월마감", domain.MarketDomestic, 300_000, 1),
		rec("2025-05-05", "모스크바", "X 크림 50ml", domain.MarketExport, 100_000, 10),
	)
	out := render(t, DeepPlan{}, records)

	overview := section(out, "## 1.", "## 2.")
	assert.Contains(t, overview, "1,500,000", "dummy amount counts toward domestic revenue")

	domestic := section(out, "#### B.", "\n---\n")
	require.NotEmpty(t, domestic)
	assert.NotContains(t, domestic, "월마감 |", "dummy items are not ranked")
	assert.Contains(t, domestic, "X 크림 50ml")

	assert.Contains(t, out, "- **시장 구성:** 수출 100,000 / 내수 1,500,000")
	assert.Contains(t, out, "- 모스크바: 100,000 원")
}

func TestDeepPlan_DomesticOnlyDummy(t *testing.T) {
	records := []domain.SalesRecord{
		rec("2025-01-31", "국내상사", "월마감", domain.MarketDomestic, 50_000, 1),
	}
	out := render(t, DeepPlan{}, records)

	assert.Contains(t, out, "- 내수 실품목 실적 미미 (월마감 위주 가능성)")
}

func TestDeepPlan_AccountOutlook(t *testing.T) {
	records := []domain.SalesRecord{
		rec("2024-01-01", "성장상사", "A 크림", domain.MarketDomestic, 100, 1),
		rec("2025-01-01", "성장상사", "A 크림", domain.MarketDomestic, 200, 1),
		rec("2024-01-01", "감소상사", "A 크림", domain.MarketDomestic, 100, 1),
		rec("2025-01-01", "감소상사", "A 크림", domain.MarketDomestic, 50, 1),
		rec("2025-01-01", "신규상사", "A 크림", domain.MarketDomestic, 10, 1),
	}
	out := render(t, DeepPlan{}, records)

	assert.Contains(t, section(out, "### 거래처: 성장상사", "### "), "급성장")
	assert.Contains(t, section(out, "### 거래처: 감소상사", "### "), "축소")
	assert.Contains(t, section(out, "### 거래처: 신규상사", "### "), "안정적인", "no baseline means zero growth")
}

func TestSummaryPlan(t *testing.T) {
	records := append(twoYearRecords(), rec("", "미상", "Y 샘플", domain.MarketDomestic, 5, 1))
	out := render(t, SummaryPlan{}, records)

	assert.Contains(t, out, "# Sales Performance Analysis Report (2024-2025)")
	assert.Contains(t, out, "Generated on: 2026-01-15 09:30:00")
	assert.Contains(t, out, "**Total Revenue:** 2,200,005 KRW")
	assert.Contains(t, out, "**Total Records:** 5")
	assert.Contains(t, out, "### Brand: X")
	assert.Contains(t, out, "### Customer: 국내상사")

	monthly := section(out, "## 1.", "## 2.")
	assert.Less(t, strings.Index(monthly, "2024-03"), strings.Index(monthly, "2025-08"))
	assert.NotContains(t, monthly, "| 5 |", "undated rows are left out of the monthly trend")
}

func TestPlans_EmptyRecords(t *testing.T) {
	for variant, plan := range Plans() {
		t.Run(string(variant), func(t *testing.T) {
			out := render(t, plan, nil)
			assert.NotEmpty(t, out)
			assert.Regexp(t, `_(No data available\.|데이터 없음)_`, out)
			assert.Equal(t, 0, countTables(t, out))
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(nil)
	rc, err := NewContext(twoYearRecords(), config.Default(), generatedAt)
	require.NoError(t, err)

	reports, err := r.Render(context.Background(), rc, []config.ReportConfig{
		{Variant: "summary", OutputPath: "out/summary.md"},
		{Variant: "deep", OutputPath: "out/deep.md", HTMLPath: "out/deep.html"},
	})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, domain.ReportVariantSummary, reports[0].Variant)
	assert.Equal(t, "out/summary.md", reports[0].Path)
	assert.Equal(t, domain.ReportFormatHTML, reports[2].Format)
	assert.Equal(t, "out/deep.html", reports[2].Path)

	html := string(reports[2].Content)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<blockquote>")
}

func TestRenderer_UnknownVariant(t *testing.T) {
	rc, err := NewContext(nil, config.Default(), generatedAt)
	require.NoError(t, err)

	reports, err := NewRenderer(nil).Render(context.Background(), rc, []config.ReportConfig{
		{Variant: "summary", OutputPath: "a.md"},
		{Variant: "weekly", OutputPath: "b.md"},
	})
	require.Error(t, err)
	assert.Nil(t, reports)
	assert.Equal(t, apperrors.ErrTypeRender, apperrors.TypeOf(err))
}
