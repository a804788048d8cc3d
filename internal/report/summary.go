package report

import (
	"fmt"

	"github.com/dustin/go-humanize"

	dp "salesreport/internal/dataprocessing"
	"salesreport/pkg/contracts/domain"
)

// SummaryPlan is the all-period overview in English.
type SummaryPlan struct{}

func (SummaryPlan) Name() string { return string(domain.ReportVariantSummary) }

func (SummaryPlan) Render(c *Context) (string, error) {
	d := newDocument("No data available.")
	records := c.Records
	total := dp.Sum(records, dp.MeasureAmount)

	title := "Sales Performance Analysis Report"
	if years := dp.Years(records); len(years) > 0 {
		title = fmt.Sprintf("%s (%d-%d)", title, years[0], years[len(years)-1])
	}
	d.line("# %s", title)
	d.line("Generated on: %s", c.GeneratedAt.Format("2006-01-02 15:04:05"))
	d.blank()
	d.line("**Total Revenue:** %s KRW", currency(total))
	d.blank()
	d.line("**Total Records:** %s", humanize.Comma(int64(len(records))))

	d.heading(2, "1. Monthly Sales Trend")
	monthly := dp.Aggregate(records, dp.MeasureAmount, dp.FieldPeriod).Chronological()
	d.table([]string{"Month", "Revenue"}, valueRows(monthly))

	customers := dp.Aggregate(records, dp.MeasureAmount, dp.FieldCustomer).Ranked(0)
	d.heading(2, "2. Top %d Customers", c.Ranking.TopCustomers)
	d.table([]string{"Customer", "Revenue", "Share"}, shareRows(customers.Ranked(c.Ranking.TopCustomers), total))

	brands := dp.Aggregate(records, dp.MeasureAmount, dp.FieldBrand).Ranked(0)
	d.heading(2, "3. Brand Performance")
	d.table([]string{"Brand", "Revenue", "Share"}, shareRows(brands, total))

	d.heading(2, "4. Customer Group Analysis")
	groups := dp.Aggregate(records, dp.MeasureAmount, dp.FieldCustomerGroup).Ranked(0)
	d.table([]string{"Group", "Revenue", "Share"}, shareRows(groups, total))

	d.heading(2, "5. Detailed Brand Analysis (Top %d)", c.Ranking.DetailBrands)
	topBrands := brands.Ranked(c.Ranking.DetailBrands).Keys()
	if len(topBrands) == 0 {
		d.placeholder()
	}
	for _, brand := range topBrands {
		sub := dp.Filter(records, dp.WithBrand(brand))
		d.heading(3, "Brand: %s", brand)
		d.line("**Total Revenue:** %s", currency(dp.Sum(sub, dp.MeasureAmount)))
		d.blank()
		d.line("**Top %d Items:**", c.Ranking.TopItems)
		items := dp.Aggregate(sub, dp.MeasureAmount, dp.FieldItem).Ranked(c.Ranking.TopItems)
		d.table([]string{"Item", "Revenue"}, valueRows(items))
	}

	d.heading(2, "6. Detailed Customer Analysis (Top %d)", c.Ranking.DetailCustomers)
	topCustomers := customers.Ranked(c.Ranking.DetailCustomers).Keys()
	if len(topCustomers) == 0 {
		d.placeholder()
	}
	for _, customer := range topCustomers {
		sub := dp.Filter(records, dp.WithCustomer(customer))
		d.heading(3, "Customer: %s", customer)
		d.line("**Total Revenue:** %s", currency(dp.Sum(sub, dp.MeasureAmount)))
		d.blank()
		d.line("**Top %d Brands:**", c.Ranking.TopItems)
		d.table([]string{"Brand", "Revenue"}, valueRows(dp.Aggregate(sub, dp.MeasureAmount, dp.FieldBrand).Ranked(c.Ranking.TopItems)))
		d.line("**Top %d Items:**", c.Ranking.TopItems)
		d.table([]string{"Item", "Revenue"}, valueRows(dp.Aggregate(sub, dp.MeasureAmount, dp.FieldItem).Ranked(c.Ranking.TopItems)))
	}

	return d.String(), nil
}
