// Package notify turns core events into delivery obligations. The core emits
// obligations after its ledger work has committed; sinks (Telegram, the admin
// websocket feed) deliver them best-effort. A failed delivery is logged and
// never rolls anything back.
package notify

import (
	"encoding/json"
	"log"
	"sync"

	"earnly/internal/models"
	"earnly/internal/repository"

	"github.com/google/uuid"
)

// Action is an inline affordance attached to a message, e.g. an approve
// button. Data is the callback payload the gateway routes back to the core.
type Action struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Obligation is one outbound message: recipient, semantics, optional actions.
// Recipient 0 addresses the owner channel.
type Obligation struct {
	ID        string   `json:"id"`
	Recipient int64    `json:"recipient"`
	Kind      string   `json:"kind"`
	Body      string   `json:"body"`
	Actions   []Action `json:"actions,omitempty"`
}

// Sink delivers obligations. Implementations must not block the caller.
type Sink interface {
	Deliver(ob Obligation) error
}

// Dispatcher persists obligations and fans them out to all registered sinks.
type Dispatcher struct {
	repo     *repository.NotificationRepository
	adminIDs []int64

	mu    sync.RWMutex
	sinks []Sink
}

func NewDispatcher(repo *repository.NotificationRepository, adminIDs []int64) *Dispatcher {
	return &Dispatcher{repo: repo, adminIDs: adminIDs}
}

func (d *Dispatcher) AddSink(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// Send emits an obligation to a single recipient.
func (d *Dispatcher) Send(recipient int64, kind, body string, actions ...Action) {
	d.dispatch(Obligation{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Kind:      kind,
		Body:      body,
		Actions:   actions,
	})
}

// SendAdmins emits the same obligation to every configured admin.
func (d *Dispatcher) SendAdmins(kind, body string, actions ...Action) {
	for _, id := range d.adminIDs {
		d.Send(id, kind, body, actions...)
	}
}

// SendChannel emits an obligation addressed to the owner channel.
func (d *Dispatcher) SendChannel(kind, body string, actions ...Action) {
	d.Send(0, kind, body, actions...)
}

func (d *Dispatcher) dispatch(ob Obligation) {
	if d.repo != nil {
		var actionsJSON string
		if len(ob.Actions) > 0 {
			b, _ := json.Marshal(ob.Actions)
			actionsJSON = string(b)
		}
		err := d.repo.Create(&models.Notification{
			ObligationID: ob.ID,
			Recipient:    ob.Recipient,
			Kind:         ob.Kind,
			Body:         ob.Body,
			Actions:      actionsJSON,
		})
		if err != nil {
			log.Printf("[notify] persist obligation %s: %v", ob.ID, err)
		}
	}
	d.mu.RLock()
	sinks := make([]Sink, len(d.sinks))
	copy(sinks, d.sinks)
	d.mu.RUnlock()
	go func() {
		delivered := false
		for _, s := range sinks {
			if err := s.Deliver(ob); err != nil {
				log.Printf("[notify] deliver %s (%s): %v", ob.ID, ob.Kind, err)
				continue
			}
			delivered = true
		}
		if delivered && d.repo != nil {
			if err := d.repo.MarkDelivered(ob.ID); err != nil {
				log.Printf("[notify] mark delivered %s: %v", ob.ID, err)
			}
		}
	}()
}
