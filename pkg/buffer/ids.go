package buffer

// FrameID is an index into the buffer pool's fixed frame array.
// Frame ids are stable for the lifetime of the pool.
type FrameID int
