package vmc

import (
	"errors"
	"math"
)

var errNoValues = errors.New("at least one value is required")

// Mean returns the arithmetic mean
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errNoValues
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// SampleVariance returns the unbiased (ddof=1) variance, 0 for fewer than two values
func SampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mu, _ := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mu
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

// StandardError returns the standard error of the mean
func StandardError(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errNoValues
	}
	if len(values) == 1 {
		return 0, nil
	}
	return math.Sqrt(SampleVariance(values) / float64(len(values))), nil
}
