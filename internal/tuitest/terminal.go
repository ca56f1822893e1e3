package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries are the queries bubbletea and termenv send at startup with
// the answer a dark xterm would give. Unanswered queries stall the program.
var terminalQueries = []struct {
	query, reply string
}{
	{"\x1b[6n", "\x1b[1;1R"},
	{"\x1b]10;?\x07", "\x1b]10;rgb:cccc/cccc/cccc\x07"},
	{"\x1b]10;?\x1b\\", "\x1b]10;rgb:cccc/cccc/cccc\x1b\\"},
	{"\x1b]11;?\x07", "\x1b]11;rgb:0000/0000/0000\x07"},
	{"\x1b]11;?\x1b\\", "\x1b]11;rgb:0000/0000/0000\x1b\\"},
}

const (
	responderWindow = 256
	responderTail   = 64
)

type terminalResponder struct {
	out     io.Writer
	pending []byte
}

func newTerminalResponder(out io.Writer) *terminalResponder {
	return &terminalResponder{out: out, pending: make([]byte, 0, responderWindow)}
}

// Process answers every query found in chunk. A short tail is kept so a
// query split across reads is still seen.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.pending = append(tr.pending, chunk...)
	for tr.answerNext() {
	}
	if len(tr.pending) > responderWindow {
		tr.pending = append(tr.pending[:0], tr.pending[len(tr.pending)-responderTail:]...)
	}
}

// answerNext replies to the earliest query in the buffer.
func (tr *terminalResponder) answerNext() bool {
	first, end := -1, 0
	reply := ""
	for _, q := range terminalQueries {
		idx := bytes.Index(tr.pending, []byte(q.query))
		if idx >= 0 && (first < 0 || idx < first) {
			first, end, reply = idx, idx+len(q.query), q.reply
		}
	}
	if first < 0 {
		return false
	}
	tr.pending = tr.pending[end:]
	_, _ = io.WriteString(tr.out, reply)
	return true
}
