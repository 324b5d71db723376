package model

import "time"

type RewardItem struct {
	ID          string    `json:"id"`
	WGID        string    `json:"wg_id"`
	Title       string    `json:"title"`
	Emoji       string    `json:"emoji"`
	Cost        int       `json:"cost"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   int64     `json:"updated_at"`
}
