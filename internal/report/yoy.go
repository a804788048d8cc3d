package report

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"

	dp "salesreport/internal/dataprocessing"
	"salesreport/pkg/contracts/domain"
)

// YoYPlan compares the current year against the base year, in Korean.
type YoYPlan struct{}

func (YoYPlan) Name() string { return string(domain.ReportVariantYoY) }

func (YoYPlan) Render(c *Context) (string, error) {
	d := newDocument("데이터 없음")
	cur, base := c.CurrentYear, c.BaseYear
	curRecs, baseRecs := c.current(), c.base()
	totalCur := dp.Sum(curRecs, dp.MeasureAmount)
	totalBase := dp.Sum(baseRecs, dp.MeasureAmount)

	d.line("# %d-%d년 매출 실적 상세 분석 보고서", base, cur)
	d.line("작성일: %s", c.GeneratedAt.Format("2006-01-02"))

	d.heading(2, "1. 종합 실적 요약 (Executive Summary)")
	d.line("- **%d년 총 매출:** %s 원", base, currency(totalBase))
	d.line("- **%d년 총 매출:** %s 원", cur, currency(totalCur))
	d.line("- **성장률 (YoY):** %s", growth(dp.GrowthPct(totalCur, totalBase)))

	d.heading(3, "1.1 월별 매출 추이 비교")
	if ref := c.imageRef("monthly_trend.png"); ref != "" {
		d.line("![월별 매출 추이](%s)", ref)
	}
	monthlyCur := dp.Aggregate(curRecs, dp.MeasureAmount, dp.FieldMonth)
	monthlyBase := dp.Aggregate(baseRecs, dp.MeasureAmount, dp.FieldMonth)
	var monthRows [][]string
	if monthlyCur.Len()+monthlyBase.Len() > 0 {
		for m := 1; m <= 12; m++ {
			key := strconv.Itoa(m)
			vb, vc := monthlyBase.Lookup(key), monthlyCur.Lookup(key)
			monthRows = append(monthRows, []string{
				fmt.Sprintf("%d월", m), currency(vb), currency(vc), growth(dp.GrowthPct(vc, vb)),
			})
		}
	}
	d.table([]string{"월", fmt.Sprintf("%d년 매출", base), fmt.Sprintf("%d년 매출", cur), "증감율"}, monthRows)

	d.heading(2, "2. %d년 브랜드별 성과 분석 (Top %d)", cur, c.Ranking.TopBrands)
	if ref := c.imageRef(fmt.Sprintf("top_brands_%d.png", cur)); ref != "" {
		d.line("![%d년 상위 브랜드](%s)", cur, ref)
	}
	brandsBase := dp.Aggregate(baseRecs, dp.MeasureAmount, dp.FieldBrand)
	brandsCur := dp.Aggregate(curRecs, dp.MeasureAmount, dp.FieldBrand).Ranked(0)
	var brandRows [][]string
	for i, g := range brandsCur.Ranked(c.Ranking.TopBrands).Groups {
		prev := brandsBase.Lookup(g.Key...)
		brandRows = append(brandRows, []string{
			strconv.Itoa(i + 1), g.Label(), currency(g.Value), currency(prev),
			growth(dp.GrowthPct(g.Value, prev)), pct(dp.SharePct(g.Value, totalCur)),
		})
	}
	d.table([]string{"순위", "브랜드", fmt.Sprintf("%d년 매출", cur), fmt.Sprintf("%d년 매출", base), "성장률 (YoY)", fmt.Sprintf("비중(%d)", cur)}, brandRows)

	d.heading(2, "3. %d년 거래처별 상세 분석 (Top %d)", cur, c.Ranking.TopCustomers)
	var custRows [][]string
	for i, g := range dp.Aggregate(curRecs, dp.MeasureAmount, dp.FieldCustomer).Ranked(c.Ranking.TopCustomers).Groups {
		topBrand := dp.Aggregate(dp.Filter(curRecs, dp.WithCustomer(g.Key[0])), dp.MeasureAmount, dp.FieldBrand).Ranked(1).Keys()
		custRows = append(custRows, []string{
			strconv.Itoa(i + 1), g.Label(), currency(g.Value), pct(dp.SharePct(g.Value, totalCur)), firstOr(topBrand, "-"),
		})
	}
	d.table([]string{"순위", "거래처명", fmt.Sprintf("%d년 매출", cur), "비중", "주요 구매 브랜드 (Top 1)"}, custRows)

	d.heading(2, "4. %d년 거래처 그룹별 분석", cur)
	groups := dp.Aggregate(curRecs, dp.MeasureAmount, dp.FieldCustomerGroup).Ranked(0)
	d.table([]string{"그룹명", "매출액", "비중"}, shareRows(groups, totalCur))

	d.heading(2, "5. 핵심 브랜드 상세 분석 (Top %d - %d년 기준)", c.Ranking.YoYDetailBrands, cur)
	detail := brandsCur.Ranked(c.Ranking.YoYDetailBrands).Keys()
	if len(detail) == 0 {
		d.placeholder()
	}
	for _, brand := range detail {
		bCur := dp.Filter(curRecs, dp.WithBrand(brand))
		revCur := dp.Sum(bCur, dp.MeasureAmount)
		revBase := brandsBase.Lookup(brand)

		d.heading(3, "[%s] 상세 분석", brand)
		d.line("- **매출:** %s 원 (YoY %s)", currency(revCur), growth(dp.GrowthPct(revCur, revBase)))
		d.blank()
		d.line("**Best %d 품목 (%d):**", c.Ranking.TopItems, cur)
		d.table([]string{"품목명", "매출액"}, valueRows(dp.Aggregate(bCur, dp.MeasureAmount, dp.FieldItem).Ranked(c.Ranking.TopItems)))
	}

	return d.String(), nil
}

// imageRef returns the relative chart reference, or "" when charts are off.
func (c *Context) imageRef(name string) string {
	if c.ImageDir == "" {
		return ""
	}
	return path.Join(filepath.ToSlash(c.ImageDir), name)
}

func firstOr(keys []string, def string) string {
	if len(keys) == 0 {
		return def
	}
	return keys[0]
}
