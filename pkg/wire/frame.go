package wire

// FrameLenSize is the byte size of the length prefix in front of each
// stream message (u32 LE total_len, counting the 32-byte header plus
// payload but not the prefix itself).
const FrameLenSize = 4
