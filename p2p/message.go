// SPDX-License-Identifier: MIT
// Dev: KryperAI

package p2p

// MessageType discriminates the kinds of payload an Envelope carries.
type MessageType string

const (
	MessageTypeTx     MessageType = "tx"
	MessageTypeAction MessageType = "action"
)

// Envelope is a generic wrapper for P2P payloads: a pending Tx headed
// for an aggregator's queue, or a landed Action (Register, Deposit,
// SubmitBlock, RevertBlock) other nodes should mirror into their own
// view of the rollup.
type Envelope struct {
	Type MessageType `json:"type"`
	// Body is raw JSON of the underlying Tx or Action.
	Body []byte `json:"body"`
}
