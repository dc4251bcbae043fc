package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrPredictionFailed   = goerr.New("prediction failed")
	ErrPredictionNotFound = goerr.New("prediction not found")
	ErrReportExport       = goerr.New("report export failed")
)
