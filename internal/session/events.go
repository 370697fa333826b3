package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errMalformedFrame = errors.New("malformed frame")

// Outbound events on the auction channel
type initEvent struct {
	Type    string  `json:"type"`
	Highest float64 `json:"highest"`
}

type newBidEvent struct {
	Type      string  `json:"type"`
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

type errorEvent struct {
	Type    string   `json:"type"`
	Msg     string   `json:"msg"`
	Highest *float64 `json:"highest,omitempty"`
}

// chatEvent is both a history entry and a live chat message
type chatEvent struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
	TS      string `json:"ts"`
}

// Inbound frames
type bidFrame struct {
	Bid bidAmount `json:"bid"`
}

type chatFrame struct {
	Content any `json:"content"`
}

// bidAmount accepts a JSON number or a numeric string; absent or null
// counts as 0.
type bidAmount float64

func (a *bidAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("bid %q is not a number", s)
		}
		*a = bidAmount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = bidAmount(f)
	return nil
}

func decodeBid(raw []byte) (float64, error) {
	var frame bidFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return 0, fmt.Errorf("%w: %v", errMalformedFrame, err)
	}
	return float64(frame.Bid), nil
}

// decodeChat returns the content of a chat frame; "" means nothing to post
func decodeChat(raw []byte) (string, error) {
	var frame chatFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return "", fmt.Errorf("%w: %v", errMalformedFrame, err)
	}
	content, _ := frame.Content.(string)
	return content, nil
}

func encode(event any) []byte {
	payload, err := json.Marshal(event)
	if err != nil {
		// every event type here is plain data
		panic(fmt.Sprintf("session: encode %T: %v", event, err))
	}
	return payload
}
