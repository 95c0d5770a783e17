package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration_HandlesConcatenatedUnits(t *testing.T) {
	d, err := parseDuration("1h30m")
	assert.NoError(t, err)
	assert.Equal(t, time.Hour+30*time.Minute, d)
}

func TestParseDuration_HandlesDaysAndWeeks(t *testing.T) {
	d, err := parseDuration("2w3d")
	assert.NoError(t, err)
	assert.Equal(t, 2*7*24*time.Hour+3*24*time.Hour, d)
}

func TestParseDuration_RejectsMissingUnit(t *testing.T) {
	_, err := parseDuration("10")
	assert.Error(t, err)
}

func TestParseDuration_RejectsUnknownUnit(t *testing.T) {
	_, err := parseDuration("10x")
	assert.Error(t, err)
}

func TestParseDuration_RejectsEmptyString(t *testing.T) {
	_, err := parseDuration("")
	assert.Error(t, err)
}
