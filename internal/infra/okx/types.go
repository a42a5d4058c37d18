package okx

import (
	"encoding/json"
	"time"
)

const (
	// DefaultWSURL is the OKX public websocket endpoint.
	DefaultWSURL = "wss://ws.okx.com:8443/ws/v5/public"

	pingInterval = 25 * time.Second
	readTimeout  = 35 * time.Second

	depthChannelBuffer  = 64
	tickerChannelBuffer = 64
)

// subscribeRequest is the OKX websocket subscription envelope.
type subscribeRequest struct {
	Op   string         `json:"op"`
	Args []subscribeArg `json:"args"`
}

type subscribeArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

// wsMessage covers event replies and channel pushes from the public stream.
// Data is decoded a second time based on the channel.
type wsMessage struct {
	Event string `json:"event"` // subscribe, error
	Code  string `json:"code"`
	Msg   string `json:"msg"`
	Arg   struct {
		Channel string `json:"channel"` // books, tickers
		InstID  string `json:"instId"`
	} `json:"arg"`
	Action string            `json:"action"` // snapshot, update (books channel)
	Data   []json.RawMessage `json:"data"`
}

// bookData is one entry of a books channel push. Levels arrive as
// [price, size, deprecated, numOrders] string arrays.
type bookData struct {
	Asks [][]string `json:"asks"`
	Bids [][]string `json:"bids"`
	Ts   string     `json:"ts"`
}

// tickerData is one entry of a tickers channel push.
type tickerData struct {
	InstID  string `json:"instId"`
	Last    string `json:"last"`
	AskPx   string `json:"askPx"`
	BidPx   string `json:"bidPx"`
	Open24h string `json:"open24h"`
	High24h string `json:"high24h"`
	Low24h  string `json:"low24h"`
	Vol24h  string `json:"vol24h"`
	Ts      string `json:"ts"`
}
