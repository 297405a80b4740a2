package client

import (
	"context"
	"time"

	"teamchat/pkg/feed"
)

const defaultPageSize = 20

// MessagePager adapts ListMessages to feed.PageSource.
type MessagePager struct {
	client *Client
	filter MessageFilter
}

func NewMessagePager(c *Client, filter MessageFilter) *MessagePager {
	return &MessagePager{client: c, filter: filter}
}

func (p *MessagePager) FetchPage(ctx context.Context, cursor string, limit int) (feed.Page[Message], error) {
	page, err := p.client.ListMessages(ctx, p.filter, cursor, limit)
	if err != nil {
		return feed.Page[Message]{}, err
	}
	return feed.Page[Message]{
		Items:      page.Page,
		NextCursor: page.Pagination.NextCursor,
		IsDone:     !page.Pagination.HasMore,
	}, nil
}

// ChannelFeed is the rendered message list of one channel, conversation or thread.
type ChannelFeed struct {
	Cursor   *feed.Cursor[Message]
	Sentinel *feed.Sentinel

	loc *time.Location
	now func() time.Time
}

func NewChannelFeed(source feed.PageSource[Message], observer feed.VisibilityObserver, loc *time.Location) *ChannelFeed {
	cursor := feed.NewCursor[Message](source, defaultPageSize).WithKey(messageID)
	return &ChannelFeed{
		Cursor:   cursor,
		Sentinel: feed.NewSentinel(cursor, observer),
		loc:      loc,
		now:      time.Now,
	}
}

// Open loads the first page and starts watching the sentinel.
func (f *ChannelFeed) Open(ctx context.Context) error {
	if err := f.Cursor.Start(ctx); err != nil {
		return err
	}
	f.Sentinel.Mount(ctx)
	return nil
}

func (f *ChannelFeed) Close() {
	f.Sentinel.Unmount()
}

// Receive inserts a live message. A message already held, or delivered later
// in a page, appears once.
func (f *ChannelFeed) Receive(m Message) {
	f.Cursor.Prepend(m)
}

func messageID(m Message) string { return m.ID }

// Groups renders the loaded messages.
func (f *ChannelFeed) Groups() []feed.DayGroup[Message] {
	return feed.Build(f.Cursor.Items(), f.loc, f.now())
}
