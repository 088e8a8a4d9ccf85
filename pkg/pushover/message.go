// Package pushover is a small client for the Pushover message API.
package pushover

import (
	"encoding/json"
	"strconv"
	"time"
)

// Priority tiers understood by Pushover.
const (
	PriorityLowest    int8 = -2
	PriorityLow       int8 = -1
	PriorityNormal    int8 = 0
	PriorityHigh      int8 = 1
	PriorityEmergency int8 = 2
)

// Emergency-tier defaults applied by Priority.
const (
	DefaultRetrySeconds  uint8 = 30
	DefaultExpireSeconds uint8 = 120
)

// Message is a single Pushover notification payload.
//
// Optional fields are pointers: a nil pointer is left out of the JSON body
// entirely, a non-nil pointer is always sent, even when it points at zero.
type Message struct {
	Token   string   `json:"token"`
	User    string   `json:"user"`
	Message string   `json:"message"`
	Devices []string `json:"devices"`

	Title     *string `json:"title,omitempty"`
	URL       *string `json:"url,omitempty"`
	URLTitle  *string `json:"url_title,omitempty"`
	Priority  *int8   `json:"priority,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
	HTML      *uint8  `json:"html,omitempty"`
	Retry     *uint8  `json:"retry,omitempty"`
	Expire    *uint8  `json:"expire,omitempty"`
}

// MarshalJSON keeps "devices" an array even when the slice is nil.
func (m Message) MarshalJSON() ([]byte, error) {
	type wire Message
	w := wire(m)
	if w.Devices == nil {
		w.Devices = []string{}
	}
	return json.Marshal(w)
}

// Base returns a message addressed to user, stamped with the current time
// and with HTML rendering enabled.
func Base(user string) Message {
	return Message{
		User:      user,
		Devices:   []string{},
		Timestamp: String(nowMillis()),
		HTML:      Uint8(1),
	}
}

// Normal returns Base(user) carrying text as its body.
func Normal(user, text string) Message {
	m := Base(user)
	m.Message = text
	return m
}

// Priority returns Normal(user, text) raised to the emergency tier, which
// Pushover re-delivers every 30 seconds until acknowledged or 120 seconds pass.
func Priority(user, text string) Message {
	m := Normal(user, text)
	m.Priority = Int8(PriorityEmergency)
	m.Retry = Uint8(DefaultRetrySeconds)
	m.Expire = Uint8(DefaultExpireSeconds)
	return m
}

// clock is swapped in tests.
var clock = time.Now

func nowMillis() string {
	ms := clock().UnixMilli()
	if ms < 0 {
		panic("pushover: system clock reports a time before the Unix epoch")
	}
	return strconv.FormatInt(ms, 10)
}

// String returns a pointer to v.
func String(v string) *string { return &v }

// Int8 returns a pointer to v.
func Int8(v int8) *int8 { return &v }

// Uint8 returns a pointer to v.
func Uint8(v uint8) *uint8 { return &v }
