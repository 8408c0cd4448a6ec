package domain

import (
	"time"
)

// Diary represents one farm work diary entry.
type Diary struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Title          string    `json:"title"`
	WorkDay        time.Time `json:"work_day"`
	Field          string    `json:"field,omitempty"`
	Crop           string    `json:"crop,omitempty"`
	Temperature    float64   `json:"temperature"`
	Weather        Weather   `json:"weather"`
	Precipitation  float64   `json:"precipitation"`
	WorkDetail     string    `json:"work_detail,omitempty"`
	AuthorNickname string    `json:"author_nickname,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DiaryComment represents a comment left on a diary entry.
type DiaryComment struct {
	ID             int64     `json:"id"`
	DiaryID        int64     `json:"diary_id"`
	UserID         int64     `json:"user_id"`
	Comment        string    `json:"comment"`
	AuthorNickname string    `json:"author_nickname,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DiarySearch holds the optional filters for listing diaries.
type DiarySearch struct {
	Title    string
	Nickname string
}
