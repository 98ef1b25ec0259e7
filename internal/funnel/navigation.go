package funnel

import (
	"fmt"
	"io"
	"sync"
)

// RedirectRecorder remembers where the form was sent and optionally prints it.
type RedirectRecorder struct {
	mu  sync.Mutex
	out io.Writer
	to  []string
}

func NewRedirectRecorder(out io.Writer) *RedirectRecorder {
	return &RedirectRecorder{out: out}
}

func (r *RedirectRecorder) Navigate(url string) {
	r.mu.Lock()
	r.to = append(r.to, url)
	r.mu.Unlock()
	if r.out != nil {
		fmt.Fprintf(r.out, "Redirecting to %s\n", url)
	}
}

// Redirects returns every destination seen so far.
func (r *RedirectRecorder) Redirects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.to...)
}

// WriterNotifier prints notices on its own line.
type WriterNotifier struct {
	Out io.Writer
}

func (n WriterNotifier) Notify(message string) {
	fmt.Fprintln(n.Out, message)
}
