package main

import (
	"context"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	advisory "github.com/opencas/advisoryviewer"
	"github.com/opencas/advisoryviewer/cas"
	"github.com/opencas/advisoryviewer/wire"
)

// session ties one websocket connection to its own viewer. The read loop
// turns client updates into viewer generations; the push loop polls the
// viewer and streams progress, leaf rectangles and the final texture back.
type session struct {
	conn   *websocket.Conn
	tables tables
	viewer *advisory.Viewer
	enc    *zstd.Encoder

	mu sync.Mutex // serializes writes to conn
}

// serveSession runs a session until the client disconnects or ctx ends.
func serveSession(ctx context.Context, c *websocket.Conn, t tables, pushInterval time.Duration) {
	connectedClients.Inc()
	defer connectedClients.Dec()
	defer c.CloseNow()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		logs.Error(errors.New("creating texture encoder").Wrap(err))
		return
	}
	defer enc.Close()

	s := &session{
		conn:   c,
		tables: t,
		viewer: advisory.NewViewer(),
		enc:    enc,
	}

	catalog := make([]wire.Viewable, 0, len(cas.Keys()))
	for _, key := range cas.Keys() {
		catalog = append(catalog, wire.FromVisualizable(cas.NewVisualizable(key)))
	}
	if err := s.write(ctx, wire.Msg{Type: wire.TypeCatalog, Catalog: catalog}); err != nil {
		return
	}

	// Start on the default view so the client has something on screen
	// before its first update.
	if err := s.apply(ctx, wire.Update{Viewee: cas.HCasCartesian.String()}); err != nil {
		logs.Error(errors.New("applying default view").Wrap(err))
		return
	}

	go s.pushLoop(ctx, pushInterval)

	for {
		var u wire.Update
		if err := wsjson.Read(ctx, c, &u); err != nil {
			logs.WithTag("err", err.Error()).Debug("session closed")
			return
		}
		if err := s.apply(ctx, u); err != nil {
			rejectedUpdates.Inc()
			logs.Warn(errors.New("rejecting client update").
				WithTag("viewee", u.Viewee).
				Wrap(err))
			if err := s.write(ctx, wire.Msg{Type: wire.TypeError, Error: err.Error()}); err != nil {
				return
			}
		}
	}
}

// apply resolves u against the catalog, starts a new generation for it and
// announces the generation to the client. Fields u leaves unset keep their
// catalog defaults.
func (s *session) apply(ctx context.Context, u wire.Update) error {
	key, err := cas.ParseVisualizableKey(u.Viewee)
	if err != nil {
		return err
	}

	v := cas.NewVisualizable(key)
	if u.XAxis != nil {
		v.XAxis = *u.XAxis
	}
	if u.YAxis != nil {
		v.YAxis = *u.YAxis
	}
	v.Pra = u.Pra
	if u.Values != nil {
		v.Values = u.Values
	}
	if u.MinDepth != nil {
		v.MinDepth = *u.MinDepth
	}
	if u.MaxDepth != nil {
		v.MaxDepth = *u.MaxDepth
	}
	if err := v.Validate(); err != nil {
		return err
	}

	id := s.viewer.Update(v.ViewerConfig(), v.Classifier(s.tables.hcas, s.tables.vcas))
	conf := s.viewer.Config()

	return s.write(ctx, wire.Msg{
		Type:        wire.TypeGeneration,
		Generation:  id.String(),
		XMin:        conf.XRange.Min,
		XMax:        conf.XRange.Max,
		YMin:        conf.YRange.Min,
		YMax:        conf.YRange.Max,
		TextureSize: conf.TextureSize(),
	})
}

// pushLoop streams the viewer's state at the configured interval: progress
// whenever the counters moved, the full leaf set whenever a refinement level
// completed, and one compressed texture frame once the generation is done.
func (s *session) pushLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		lastGen     uuid.UUID
		lastLevel   int
		lastSent    advisory.Progress
		sentTexture bool
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		p := s.viewer.Progress()
		if p.Generation == uuid.Nil {
			continue
		}
		if p.Generation != lastGen {
			lastGen = p.Generation
			lastLevel = -1
			lastSent = advisory.Progress{}
			sentTexture = false
		}

		if p != lastSent {
			msg := wire.Msg{
				Type:       wire.TypeProgress,
				Generation: p.Generation.String(),
				Progress: &wire.Progress{
					BaseDone:   p.BaseDone,
					BaseTarget: p.BaseTarget,
					ExtraDone:  p.ExtraDone,
					Level:      p.Level,
					MaxDepth:   p.MaxDepth,
					Done:       p.Done(),
				},
			}
			if err := s.write(ctx, msg); err != nil {
				return
			}
			lastSent = p
		}

		if p.Level > lastLevel {
			cells := s.viewer.Polygons()
			msg := wire.Msg{
				Type:       wire.TypeRects,
				Generation: p.Generation.String(),
				Rects:      wire.FromCells(cells),
			}
			if err := s.write(ctx, msg); err != nil {
				return
			}
			pushedRects.Add(float64(len(cells)))
			lastLevel = p.Level
		}

		if p.Done() && !sentTexture {
			if err := s.pushTexture(ctx); err != nil {
				logs.Warn(errors.New("pushing texture frame").
					WithTag("generation", p.Generation.String()).
					Wrap(err))
				return
			}
			sentTexture = true
		}
	}
}

func (s *session) pushTexture(ctx context.Context) error {
	img := s.viewer.RenderTexture()
	if img == nil {
		return nil
	}
	frame, err := wire.EncodeTextureFrame(s.enc, img.Rect.Dx(), img.Pix)
	if err != nil {
		return err
	}
	pushedTextureBytes.Add(float64(len(frame)))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Write(ctx, websocket.MessageBinary, frame)
}

func (s *session) write(ctx context.Context, msg wire.Msg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wsjson.Write(ctx, s.conn, msg)
}
