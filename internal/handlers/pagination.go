package handlers

import (
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/mongo/options"
)

var errBadPagination = errors.New("invalid pagination parameters")

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errBadPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errBadPagination
		}
		limit = l
	}

	return page, limit, nil
}

func optionsFindPage(page, limit int64) *options.FindOptions {
	return options.Find().SetSkip((page - 1) * limit).SetLimit(limit)
}
