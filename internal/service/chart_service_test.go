package service

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartService_RenderSpendingFlow(t *testing.T) {
	service := NewChartService()
	report := &domain.SpendingFlowReport{
		Header: []string{"Date", "Money"},
		Data: []domain.ReportRow{
			{"2024-03-01", float64(-15)},
			{"2024-03-02", float64(0)},
			{"2024-03-03", float64(50)},
		},
	}

	data, err := service.RenderSpendingFlow(report)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestChartService_SingleFlatDay(t *testing.T) {
	service := &ChartService{Width: 400, Height: 200}
	report := &domain.SpendingFlowReport{
		Header: []string{"Date", "Money"},
		Data:   []domain.ReportRow{{"2024-03-01", float64(0)}},
	}

	data, err := service.RenderSpendingFlow(report)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestChartService_Empty(t *testing.T) {
	_, err := NewChartService().RenderSpendingFlow(&domain.SpendingFlowReport{Header: []string{"Date", "Money"}})
	assert.ErrorIs(t, err, ErrNothingToPlot)
}

func TestChartService_MalformedDay(t *testing.T) {
	_, err := NewChartService().RenderSpendingFlow(&domain.SpendingFlowReport{
		Data: []domain.ReportRow{{"March 1st", float64(1)}},
	})
	assert.Error(t, err)
}
