package ports

// Clock is a monotonic millisecond counter.
// The counter wraps at 2^32 ms; callers compare with unsigned subtraction.
type Clock interface {
	Millis() uint32
}
