package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListParams tells ListQuery which document fields the generic query
// parameters map to for a given collection.
type ListParams struct {
	// NameField is the target of the case-insensitive substring search and
	// the only field sorted ascending.
	NameField string
	// EmailField is the target of the email equality filter, e.g.
	// "participantEmail" or "organizerEmail" depending on the caller.
	EmailField string
}

// ListQuery translates the optional search/email/sort/page/size query
// parameters of a list request into a filter document and find options.
//
// search matches the name field case-insensitively and unanchored; sort maps
// the name field to ascending and every other field to descending; page
// defaults to 1 and size to 0 (unbounded), with skip = (page-1)*size and
// limit = size when a size is given.
func ListQuery(c *gin.Context, params ListParams) (bson.M, *options.FindOptions, error) {
	filter := bson.M{}

	if search := c.Query("search"); search != "" && params.NameField != "" {
		filter[params.NameField] = bson.M{"$regex": search, "$options": "i"}
	}
	if email := c.Query("email"); email != "" && params.EmailField != "" {
		filter[params.EmailField] = email
	}

	findOpts := options.Find()

	if sortField := c.Query("sort"); sortField != "" {
		direction := -1
		if sortField == params.NameField {
			direction = 1
		}
		findOpts.SetSort(bson.D{{Key: sortField, Value: direction}})
	}

	page, size, err := pageParams(c)
	if err != nil {
		return nil, nil, err
	}
	if size > 0 {
		findOpts.SetSkip(int64((page - 1) * size))
		findOpts.SetLimit(int64(size))
	}

	return filter, findOpts, nil
}

// pageParams parses page and size with explicit defaults instead of
// propagating unvalidated numeric input: page defaults to 1, size to 0
// meaning no limit.
func pageParams(c *gin.Context) (page, size int, err error) {
	page = 1
	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", raw)
		}
	}

	if raw := c.Query("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 0 {
			return 0, 0, fmt.Errorf("invalid size %q", raw)
		}
	}

	return page, size, nil
}

// searchFilter is the count-route variant of ListQuery: search only.
func searchFilter(c *gin.Context, nameField string) bson.M {
	filter := bson.M{}
	if search := c.Query("search"); search != "" {
		filter[nameField] = bson.M{"$regex": search, "$options": "i"}
	}
	return filter
}
