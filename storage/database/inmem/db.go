package inmemdb

import (
	"sync"

	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

type (
	DB struct {
		offer     *offerTable
		teacher   *teacherTable
		agreement *agreementTable
	}

	offerTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*internship.Offer
	}

	teacherTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*internship.Teacher
	}

	agreementTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*internship.Agreement
	}
)

func Open() *DB {
	return &DB{
		offer:     &offerTable{table: make(map[int]*internship.Offer)},
		teacher:   &teacherTable{table: make(map[int]*internship.Teacher)},
		agreement: &agreementTable{table: make(map[int]*internship.Agreement)},
	}
}
