// Package charts renders spending analysis results as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// Generator renders charts from a spending analysis.
type Generator struct{}

// NewGenerator creates a new chart generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateMonthlySpendingChart renders total spending per month as a
// time series. Returns nil bytes when there is no monthly data.
func (g *Generator) GenerateMonthlySpendingChart(analysis *domain.Analysis) ([]byte, error) {
	if analysis == nil || len(analysis.MonthlySpending) == 0 {
		return nil, nil
	}

	months := make([]string, 0, len(analysis.MonthlySpending))
	for month := range analysis.MonthlySpending {
		months = append(months, month)
	}
	sort.Strings(months)

	xValues := make([]time.Time, 0, len(months))
	yValues := make([]float64, 0, len(months))
	for _, month := range months {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			continue
		}
		xValues = append(xValues, t)
		yValues = append(yValues, analysis.MonthlySpending[month])
	}
	if len(xValues) == 0 {
		return nil, nil
	}

	graph := chart.Chart{
		Title:  "Monthly Spending",
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Spending",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render monthly spending chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateCategoryPieChart renders the category breakdown as a pie
// chart. Slices under 1% of total spending are dropped to keep labels
// readable. Returns nil bytes when there is no category data.
func (g *Generator) GenerateCategoryPieChart(analysis *domain.Analysis) ([]byte, error) {
	if analysis == nil || len(analysis.CategoryBreakdown) == 0 || analysis.TotalSpending <= 0 {
		return nil, nil
	}

	categories := make([]string, 0, len(analysis.CategoryBreakdown))
	for category := range analysis.CategoryBreakdown {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	values := make([]chart.Value, 0, len(categories))
	for _, category := range categories {
		stat := analysis.CategoryBreakdown[category]
		percentage := (stat.Total / analysis.TotalSpending) * 100
		if percentage > 1.0 {
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%s: $%.0f (%.1f%%)", category, stat.Total, percentage),
				Value: stat.Total,
			})
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Title:  "Spending by Category",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateTopMerchantsChart renders the top merchants as a bar chart.
// Returns nil bytes when there is no merchant data.
func (g *Generator) GenerateTopMerchantsChart(analysis *domain.Analysis) ([]byte, error) {
	if analysis == nil || len(analysis.TopMerchants) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(analysis.TopMerchants))
	for _, merchant := range analysis.TopMerchants {
		bars = append(bars, chart.Value{
			Label: merchant.Name,
			Value: merchant.Total,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(160),
			},
		})
	}

	graph := chart.BarChart{
		Title:    "Top Merchants",
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render top merchants chart: %w", err)
	}
	return buffer.Bytes(), nil
}
