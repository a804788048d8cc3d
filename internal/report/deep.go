package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	dp "salesreport/internal/dataprocessing"
	"salesreport/pkg/contracts/domain"
)

var tagLabels = map[domain.Tag]string{
	domain.TagHighGrowth:           "🚀 고성장(Star)",
	domain.TagDeclining:            "📉 쇠퇴주의(Decline)",
	domain.TagSoftDecline:          "⚠️ 역성장",
	domain.TagExportLed:            "🌏 수출주도형",
	domain.TagDomesticConcentrated: "🏠 내수집중형",
	domain.TagCashCow:              "💰 캐시카우",
}

var trendMarks = map[domain.Trend]string{
	domain.TrendSurging:   " 🔥",
	domain.TrendDeclining: " 📉",
}

var outlookSentences = map[domain.Outlook]string{
	domain.OutlookGrowing:   "전략적 파트너로서 거래 규모가 급성장 중입니다.",
	domain.OutlookShrinking: "거래 규모가 축소되고 있어 원인 파악 및 Relationship 관리가 시급합니다.",
	domain.OutlookStable:    "안정적인 거래 규모를 유지하고 있습니다.",
}

// DeepPlan splits the analysis by market, in Korean. Export is analysed by
// revenue, domestic by unit volume of real merchandise.
type DeepPlan struct{}

func (DeepPlan) Name() string { return string(domain.ReportVariantDeep) }

func (p DeepPlan) Render(c *Context) (string, error) {
	d := newDocument("데이터 없음")
	cur, base := c.CurrentYear, c.BaseYear

	d.line("# 심층 영업 분석 보고서 (%d-%d)", base, cur)
	d.line("작성일: %s", c.GeneratedAt.Format("2006-01-02"))
	d.line("본 보고서는 %d/%d년 실적을 상세 비교하며, 특히 내수/수출 시장의 특성을 반영하여 이원화된 분석을 수행하였습니다.", base%100, cur%100)
	d.line("- **수출:** 매출액(Revenue) 기준 정밀 분석")
	d.line("- **내수:** '월마감' 더미 데이터 제외 후 판매수량(Qty) 기준 실질 품목 분석")

	p.marketOverview(d, c)
	p.brandDeepDive(d, c)
	p.customerReports(d, c)

	return d.String(), nil
}

func (DeepPlan) marketOverview(d *document, c *Context) {
	cur, base := c.CurrentYear, c.BaseYear
	d.heading(2, "1. 시장별 개요 (Market Overview)")

	byMarket := dp.Aggregate(c.Records, dp.MeasureAmount, dp.FieldYear, dp.FieldMarket)
	totalCur := dp.Sum(c.current(), dp.MeasureAmount)
	baseKey, curKey := fmt.Sprint(base), fmt.Sprint(cur)

	var rows [][]string
	if len(c.current())+len(c.base()) > 0 {
		for _, m := range domain.Markets {
			vb := byMarket.Lookup(baseKey, string(m))
			vc := byMarket.Lookup(curKey, string(m))
			rows = append(rows, []string{
				string(m), currency(vb), currency(vc), growth(dp.GrowthPct(vc, vb)), pct(dp.SharePct(vc, totalCur)),
			})
		}
	}
	d.table([]string{"구분 (매출)", fmt.Sprintf("%d년", base), fmt.Sprintf("%d년", cur), "증감율", fmt.Sprintf("비중(%d)", cur)}, rows)
}

func (DeepPlan) brandDeepDive(d *document, c *Context) {
	d.heading(2, "2. 브랜드 심층 분석 (Brand Deep-Dive)")

	brands := dp.Aggregate(c.current(), dp.MeasureAmount, dp.FieldBrand).Ranked(c.Ranking.DetailBrands).Keys()
	if len(brands) == 0 {
		d.placeholder()
		return
	}

	for i, brand := range brands {
		bCur := c.current(dp.WithBrand(brand))
		bBase := c.base(dp.WithBrand(brand))
		revCur := dp.Sum(bCur, dp.MeasureAmount)
		g := dp.GrowthPct(revCur, dp.Sum(bBase, dp.MeasureAmount))

		exportRecs := dp.Filter(bCur, dp.InMarket(domain.MarketExport))
		exRev := dp.Sum(exportRecs, dp.MeasureAmount)
		domRev := dp.Sum(dp.Filter(bCur, dp.InMarket(domain.MarketDomestic)), dp.MeasureAmount)
		exShare := dp.ExportSharePct(exRev, domRev)

		d.heading(3, "2.%d [%s]", i+1, brand)
		d.line("**Insight Tags:** %s", tagLine(c.Classifier.BrandTags(g, exShare, revCur)))
		d.blank()
		d.line("> 💡 **Insight:** %s", brandNarrative(c, brand, g, exShare))
		d.blank()
		d.line("- **총 매출:** %s 원", currency(revCur))
		d.line("- **시장 구성:** 수출 %s / 내수 %s", currency(exRev), currency(domRev))

		d.heading(4, "A. 수출 성과 (매출 기준)")
		if len(exportRecs) == 0 {
			d.line("- 수출 실적 없음")
		} else {
			d.line("**주요 수출 거래처:**")
			for _, cg := range dp.Aggregate(exportRecs, dp.MeasureAmount, dp.FieldCustomer).Ranked(c.Ranking.ExportCustomers).Groups {
				d.line("- %s: %s 원", cg.Label(), currency(cg.Value))
			}
			d.blank()
			d.line("**주요 수출 품목 (매출 Top %d):**", c.Ranking.TopItems)
			d.table([]string{"품목명", "매출", "수량"}, itemRowsWithQuantity(exportRecs, c.Ranking.TopItems))
		}

		d.heading(4, "B. 내수 성과 (수량 기준, 실품목)")
		domItems := dp.Filter(bCur, dp.InMarket(domain.MarketDomestic), dp.ExcludeDummy())
		if len(domItems) == 0 {
			d.line("- 내수 실품목 실적 미미 (월마감 위주 가능성)")
		} else {
			baseQty := dp.Aggregate(dp.Filter(bBase, dp.InMarket(domain.MarketDomestic)), dp.MeasureQuantity, dp.FieldItem)
			var rows [][]string
			for _, ig := range dp.Aggregate(domItems, dp.MeasureQuantity, dp.FieldItem).Ranked(c.Ranking.TopItems).Groups {
				qg := dp.GrowthPct(ig.Value, baseQty.Lookup(ig.Key...))
				rows = append(rows, []string{ig.Label(), currency(ig.Value), growth(qg) + trendMarks[c.Classifier.ItemTrend(qg)]})
			}
			d.line("**주요 내수 품목 (판매수량 Top %d):**", c.Ranking.TopItems)
			d.table([]string{"품목명", "수량", "트렌드(YoY)"}, rows)
		}

		d.blank()
		d.line("---")
	}
}

func (DeepPlan) customerReports(d *document, c *Context) {
	d.heading(2, "3. 핵심 거래처 영업 보고서 (Customer Reports)")

	customers := dp.Aggregate(c.current(), dp.MeasureAmount, dp.FieldCustomer).Ranked(c.Ranking.DetailCustomers).Keys()
	if len(customers) == 0 {
		d.placeholder()
		return
	}

	for _, customer := range customers {
		cCur := c.current(dp.WithCustomer(customer))
		revCur := dp.Sum(cCur, dp.MeasureAmount)
		g := dp.GrowthPct(revCur, dp.Sum(c.base(dp.WithCustomer(customer)), dp.MeasureAmount))

		d.heading(3, "거래처: %s", customer)
		d.line("> 💡 **Account Insight:** %s", outlookSentences[c.Classifier.AccountOutlook(g)])
		d.blank()
		d.line("- **%d 매출:** %s 원 (YoY %s)", c.CurrentYear, currency(revCur), growth(g))
		d.blank()
		d.line("**Top %d 구매 브랜드:**", c.Ranking.MixBrands)
		for _, bg := range dp.Aggregate(cCur, dp.MeasureAmount, dp.FieldBrand).Ranked(c.Ranking.MixBrands).Groups {
			d.line("- %s: %s (%s)", bg.Label(), currency(bg.Value), pct(dp.SharePct(bg.Value, revCur)))
		}
		d.blank()
		d.line("**Top %d 구매 품목:**", c.Ranking.TopItems)
		d.table([]string{"품목명", "매출", "수량"}, itemRowsWithQuantity(cCur, c.Ranking.TopItems))
	}
}

// brandNarrative builds the insight sentence of a brand section.
func brandNarrative(c *Context, brand string, g, exShare float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**[%s]**는 전년 대비 **%s** 성장/하락하였습니다. ", brand, growth(g))
	if c.Classifier.ExportLeaning(exShare) {
		fmt.Fprintf(&b, "특히 **수출 비중이 %s**로 해외 시장 의존도가 높으며, ", pct(exShare))
	} else {
		fmt.Fprintf(&b, "**내수 시장 중심(%s)**으로 운영되고 있으며, ", pct(100-exShare))
	}
	b.WriteString("전략적 대응이 필요합니다.")
	return b.String()
}

// itemRowsWithQuantity ranks items by revenue and shows their unit volume.
func itemRowsWithQuantity(records []domain.SalesRecord, topN int) [][]string {
	qty := dp.Aggregate(records, dp.MeasureQuantity, dp.FieldItem)
	var rows [][]string
	for _, g := range dp.Aggregate(records, dp.MeasureAmount, dp.FieldItem).Ranked(topN).Groups {
		rows = append(rows, []string{g.Label(), currency(g.Value), quantity(qty.Lookup(g.Key...))})
	}
	return rows
}

func tagLine(tags []domain.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = tagLabels[t]
	}
	return strings.Join(labels, " ")
}

func quantity(v decimal.Decimal) string {
	return currency(v)
}
