package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/util"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrNothingToPlot is returned when a report has no rows to draw
var ErrNothingToPlot = errors.New("report has no data to plot")

// ChartService renders reports as images
type ChartService struct {
	Width  int
	Height int
}

// NewChartService creates a ChartService with the default canvas size
func NewChartService() *ChartService {
	return &ChartService{Width: 1200, Height: 600}
}

// RenderSpendingFlow draws the daily series of a spending flow report as a PNG line chart
func (s *ChartService) RenderSpendingFlow(report *domain.SpendingFlowReport) ([]byte, error) {
	if report == nil || len(report.Data) == 0 {
		return nil, ErrNothingToPlot
	}

	xValues := make([]time.Time, 0, len(report.Data))
	yValues := make([]float64, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) < 2 {
			return nil, fmt.Errorf("malformed report row %v", row)
		}
		key, _ := row[0].(string)
		day, err := time.Parse(util.DayLayout, key)
		if err != nil {
			return nil, fmt.Errorf("malformed report day %q: %w", key, err)
		}
		value, _ := row[1].(float64)
		xValues = append(xValues, day)
		yValues = append(yValues, value)
	}

	graph := chart.Chart{
		Title:  "Spending flow",
		Width:  s.Width,
		Height: s.Height,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat(util.DayLayout),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return util.FormatAmount(v.(float64))
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Money",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	// go-chart refuses zero-width ranges: a single day or a flat series
	if len(xValues) == 1 {
		graph.XAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(xValues[0].AddDate(0, 0, -1)),
			Max: chart.TimeToFloat64(xValues[0].AddDate(0, 0, 1)),
		}
	}
	if lo, hi := bounds(yValues); lo == hi {
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render spending flow chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
