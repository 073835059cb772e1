package calculator

import (
	"errors"

	"ShareEvaluator/internal/model"
)

// ErrNotEnoughData is returned when a window is longer than the series.
var ErrNotEnoughData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrNotEnoughData
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// CalculateMA50 returns the 50-day simple moving average of daily closes.
func CalculateMA50(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(Closes(dailyBars), 50)
}

// CalculateMA200 returns the 200-day simple moving average of daily closes.
func CalculateMA200(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(Closes(dailyBars), 200)
}

// Closes extracts closing prices in bar order.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
