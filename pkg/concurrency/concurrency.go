package concurrency

const (
	// DefaultMax default max
	DefaultMax = 256
)

// DefaultGoLimit default go limit, max:256
var DefaultGoLimit = NewGoLimit(DefaultMax)

// GoLimit go limit
type GoLimit struct {
	ch chan int
}

// NewGoLimit new go limit
func NewGoLimit(max int) *GoLimit {
	return &GoLimit{
		ch: make(chan int, max),
	}
}

// Add add num
func (g *GoLimit) Add() {
	g.ch <- 1
}

// Done remove num
func (g *GoLimit) Done() {
	<-g.ch
}

// Close close chan
func (g *GoLimit) Close() {
	close(g.ch)
}
