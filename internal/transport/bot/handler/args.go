package handler

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errMissingArgs    = errors.New("missing arguments")
	errInvalidPercent = errors.New("invalid percent")
)

// parseSubscribeArgs разбирает "/subscribe <коллекция> <процент>".
// Процент допускает суффикс % и десятичную запятую.
func parseSubscribeArgs(text string) (string, float64, error) {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return "", 0, errMissingArgs
	}

	raw := strings.TrimSuffix(parts[2], "%")
	raw = strings.Replace(raw, ",", ".", 1)

	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, errInvalidPercent
	}

	return parts[1], pct, nil
}

func parseCollectionArg(text string) (string, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", errMissingArgs
	}

	return parts[1], nil
}
