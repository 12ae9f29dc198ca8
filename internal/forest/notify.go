package forest

import "sync"

// Notifier fans out payload-free change signals. Each subscriber channel
// has room for one pending signal; further signals coalesce into it. The
// zero value is ready to use.
type Notifier struct {
	mu   sync.Mutex
	subs []chan struct{}
}

// Subscribe registers a new subscriber channel.
func (n *Notifier) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()
	return ch
}

// Unsubscribe closes and forgets ch.
func (n *Notifier) Unsubscribe(ch <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.subs {
		if s == ch {
			close(s)
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// Notify signals every subscriber without blocking.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
