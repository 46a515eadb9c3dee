package discord

import "encoding/json"

const (
	rpcVersion = 1

	cmdDispatch    = "DISPATCH"
	cmdSetActivity = "SET_ACTIVITY"

	evtReady = "READY"
	evtError = "ERROR"
)

type handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

type command struct {
	Cmd   string `json:"cmd"`
	Args  any    `json:"args"`
	Nonce string `json:"nonce"`
}

type setActivityArgs struct {
	PID      int       `json:"pid"`
	Activity *Activity `json:"activity"`
}

// message is any FRAME Discord sends back: command replies and events.
type message struct {
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

type readyData struct {
	User User `json:"user"`
}

// User is the Discord account the client is logged into.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Activity is the rich presence payload as Discord expects it.
type Activity struct {
	Details    string      `json:"details,omitempty"`
	State      string      `json:"state,omitempty"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
	Assets     *Assets     `json:"assets,omitempty"`
	Buttons    []Button    `json:"buttons,omitempty"`
}

// Timestamps are unix milliseconds.
type Timestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

type Assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

func (m *message) rpcError() *RPCError {
	if m.Evt != evtError {
		return nil
	}
	rpcErr := &RPCError{}
	if err := json.Unmarshal(m.Data, rpcErr); err != nil {
		rpcErr.Message = string(m.Data)
	}
	return rpcErr
}
