package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"spot_go/internal/domain"
	"spot_go/internal/infra"
)

// Worker handles the OKX public websocket connection. It subscribes to the
// books and tickers channels for the configured symbols and fans decoded
// events out on buffered channels. It implements domain.MarketStream.
type Worker struct {
	wsURL   string
	symbols []string

	depthChan  chan domain.DepthUpdate
	tickerChan chan *domain.Ticker

	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates an OKX worker for the given symbols. An empty wsURL
// falls back to the public endpoint.
func NewWorker(wsURL string, symbols []string) *Worker {
	if wsURL == "" {
		wsURL = DefaultWSURL
	}
	return &Worker{
		wsURL:      wsURL,
		symbols:    symbols,
		depthChan:  make(chan domain.DepthUpdate, depthChannelBuffer),
		tickerChan: make(chan *domain.Ticker, tickerChannelBuffer),
	}
}

// Depth returns the depth event stream.
func (w *Worker) Depth() <-chan domain.DepthUpdate {
	return w.depthChan
}

// Tickers returns the ticker stream.
func (w *Worker) Tickers() <-chan *domain.Ticker {
	return w.tickerChan
}

// Connect starts the websocket connection with automatic reconnection.
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.connectionLoop(ctx)

	return nil
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("OKX panic recovered", slog.Any("panic", r))
		}
	}()

	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("OKX connection loop stopped")
			return
		default:
		}

		err := w.connect(ctx)
		if err != nil {
			if !domain.IsRetriable(err) {
				slog.Error("OKX connection failed permanently", slog.Any("error", err))
				return
			}
			slog.Warn("OKX connection failed",
				slog.Any("error", err),
				slog.Int("retry", retryCount),
			)
			infra.GlobalMetrics.RecordError()

			delay := infra.CalculateBackoff(retryCount)
			retryCount++

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		retryCount = 0
		w.readLoop(ctx)
	}
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, w.wsURL, nil)
	if err != nil {
		return domain.NewNetworkError("dial", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return domain.NewNetworkError("subscribe", err)
	}

	go w.pingLoop(ctx)

	infra.GlobalMetrics.IncrementConnections()
	slog.Info("OKX WebSocket connected", slog.Int("symbols", len(w.symbols)))
	return nil
}

func (w *Worker) subscribe() error {
	args := make([]subscribeArg, 0, len(w.symbols)*2)
	for _, symbol := range w.symbols {
		args = append(args,
			subscribeArg{Channel: "books", InstID: symbol},
			subscribeArg{Channel: "tickers", InstID: symbol},
		)
	}

	req := subscribeRequest{Op: "subscribe", Args: args}
	msgBytes, err := json.Marshal(req)
	if err != nil {
		return err
	}

	return w.threadSafeWrite(websocket.TextMessage, msgBytes)
}

func (w *Worker) threadSafeWrite(messageType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.RLock()
	conn := w.conn
	w.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("connection is nil")
	}

	return conn.WriteMessage(messageType, data)
}

func (w *Worker) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("OKX pingLoop panic recovered", slog.Any("panic", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.threadSafeWrite(websocket.TextMessage, []byte("ping")); err != nil {
				slog.Warn("OKX ping failed", slog.Any("error", err))
			}
		}
	}
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()

		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("OKX read error", slog.Any("error", err))
			}
			w.closeConnection()
			return
		}

		if string(message) == "pong" {
			continue
		}

		w.handleMessage(message)
	}
}

func (w *Worker) handleMessage(message []byte) {
	var msg wsMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	if msg.Event == "error" {
		slog.Warn("OKX stream error", slog.String("code", msg.Code), slog.String("msg", msg.Msg))
		infra.GlobalMetrics.RecordError()
		return
	}
	if msg.Event != "" || len(msg.Data) == 0 {
		return
	}

	switch msg.Arg.Channel {
	case "books":
		w.handleBooks(msg)
	case "tickers":
		w.handleTickers(msg)
	}
}

func (w *Worker) handleBooks(msg wsMessage) {
	for _, raw := range msg.Data {
		var data bookData
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}

		update := domain.DepthUpdate{
			Symbol: msg.Arg.InstID,
			Action: msg.Action,
			Asks:   toRawLevels(data.Asks),
			Bids:   toRawLevels(data.Bids),
			Ts:     parseMillis(data.Ts),
		}
		if update.Action == "" {
			update.Action = domain.DepthActionSnapshot
		}

		select {
		case w.depthChan <- update:
		default:
			slog.Warn("OKX depth channel full, dropping update")
		}
	}
}

func (w *Worker) handleTickers(msg wsMessage) {
	for _, raw := range msg.Data {
		var data tickerData
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}
		ticker := parseTicker(data)
		if ticker == nil {
			continue
		}

		select {
		case w.tickerChan <- ticker:
		default:
			slog.Warn("OKX ticker channel full, dropping data")
		}
	}
}

func parseTicker(data tickerData) *domain.Ticker {
	last, err := decimal.NewFromString(data.Last)
	if err != nil {
		return nil
	}

	bidPx, _ := decimal.NewFromString(data.BidPx)
	askPx, _ := decimal.NewFromString(data.AskPx)
	open24h, _ := decimal.NewFromString(data.Open24h)
	high24h, _ := decimal.NewFromString(data.High24h)
	low24h, _ := decimal.NewFromString(data.Low24h)
	vol24h, _ := decimal.NewFromString(data.Vol24h)

	return &domain.Ticker{
		Symbol:  data.InstID,
		Last:    last,
		BidPx:   bidPx,
		AskPx:   askPx,
		Open24h: open24h,
		High24h: high24h,
		Low24h:  low24h,
		Vol24h:  vol24h,
		Ts:      parseMillis(data.Ts),
	}
}

func toRawLevels(levels [][]string) []domain.RawLevel {
	if len(levels) == 0 {
		return nil
	}
	out := make([]domain.RawLevel, 0, len(levels))
	for _, level := range levels {
		out = append(out, domain.RawLevel(level))
	}
	return out
}

func parseMillis(s string) int64 {
	ms, _ := strconv.ParseInt(s, 10, 64)
	return ms
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	if w.connected {
		infra.GlobalMetrics.DecrementConnections()
	}
	w.connected = false
}

// Disconnect closes the connection and waits for the worker to stop.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
	slog.Info("OKX WebSocket disconnected")
}

// IsConnected returns connection status.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}
