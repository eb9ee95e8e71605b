package domain

// ForecastModel identifies which model produced a forecast batch.
// Attached to every persisted forecast for audit.
type ForecastModel string

const (
	ModelNaive         ForecastModel = "naive"
	ModelMovingAverage ForecastModel = "moving_average"
	ModelArima         ForecastModel = "arima"
)
