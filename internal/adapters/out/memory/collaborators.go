package memory

import (
	"context"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"
)

// Catalog serves listings seeded with Store.PutListing.
type Catalog struct {
	store *Store
}

func NewCatalog(store *Store) *Catalog {
	return &Catalog{store: store}
}

func (c *Catalog) GetListing(_ context.Context, productID kernel.UUID) (transaction.Listing, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	l, ok := c.store.listings[productID]
	if !ok {
		return transaction.Listing{}, errs.NewObjectNotFoundError("product", productID.String())
	}
	return l, nil
}

// Directory serves addresses seeded with Store.PutEmail.
type Directory struct {
	store *Store
}

func NewDirectory(store *Store) *Directory {
	return &Directory{store: store}
}

func (d *Directory) EmailOf(_ context.Context, userID kernel.UUID) (string, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	email, ok := d.store.emails[userID]
	if !ok {
		return "", errs.NewObjectNotFoundError("user email", userID.String())
	}
	return email, nil
}

// Channel records pushes and emails and can be told to fail.
type Channel struct {
	mu      sync.Mutex
	pushed  []*notification.Notification
	emails  []SentEmail
	pushErr error
	mailErr error
}

// SentEmail is one message accepted by Channel.
type SentEmail struct {
	To, Subject, Body string
}

func NewChannel() *Channel {
	return &Channel{}
}

// FailPush makes every following Publish return err.
func (c *Channel) FailPush(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushErr = err
}

// FailEmail makes every following Send return err.
func (c *Channel) FailEmail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mailErr = err
}

func (c *Channel) Publish(_ context.Context, n *notification.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pushErr != nil {
		return c.pushErr
	}
	c.pushed = append(c.pushed, n)
	return nil
}

func (c *Channel) Send(_ context.Context, to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mailErr != nil {
		return c.mailErr
	}
	c.emails = append(c.emails, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (c *Channel) Pushed() []*notification.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*notification.Notification(nil), c.pushed...)
}

func (c *Channel) Emails() []SentEmail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentEmail(nil), c.emails...)
}
