// Package inmemdb keeps every table in memory. Used in development and tests.
package inmemdb

import (
	"sync"

	"github.com/fatimaschool/website/core/feedback"
	"github.com/fatimaschool/website/core/gallery"
)

type (
	feedbackTable struct {
		mutex sync.RWMutex
		rows  []feedback.Message // insertion order
	}

	galleryTable struct {
		mutex sync.RWMutex
		pk    int64
		rows  map[int64]*gallery.Item
	}
)

type DB struct {
	feedback *feedbackTable
	gallery  *galleryTable
}

func NewDB() *DB {
	return &DB{
		feedback: &feedbackTable{},
		gallery:  &galleryTable{rows: make(map[int64]*gallery.Item)},
	}
}
