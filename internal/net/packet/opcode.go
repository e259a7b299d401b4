package packet

// Client → server opcodes.
const (
	C_OPCODE_VERSION byte = 0x01 // client version handshake
	C_OPCODE_JOIN    byte = 0x02 // enter world with player name
	C_OPCODE_MOVE    byte = 0x10 // position + heading update
	C_OPCODE_PICKUP  byte = 0x11 // ground item pickup request
	C_OPCODE_DROP    byte = 0x12 // drop from inventory
	C_OPCODE_ALIVE   byte = 0x7e // keepalive
	C_OPCODE_QUIT    byte = 0x7f // clean disconnect
)

// Server → client opcodes.
const (
	S_OPCODE_VERSION_OK    byte = 0x81
	S_OPCODE_JOIN_OK       byte = 0x82
	S_OPCODE_ITEM_SPAWN    byte = 0x90 // full item state (+ merge hint, velocity)
	S_OPCODE_ITEM_COUNT    byte = 0x91 // count change on an existing item
	S_OPCODE_REMOVE_OBJECT byte = 0x92 // item gone (picked up / despawned / absorbed)
	S_OPCODE_PICKUP_ACK    byte = 0x93 // pickup granted to the claimant
	S_OPCODE_PONG          byte = 0xfe
)

// SessionState gates which opcodes a session may send.
type SessionState int

const (
	StateHandshake SessionState = iota // connected, version not yet checked
	StateVersionOK                     // version accepted, not yet in world
	StateInWorld                       // joined, full gameplay allowed
	StateClosed
)
