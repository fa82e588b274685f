package server

import (
	"context"
	"fmt"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/observability"
	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/render/sink"
	"github.com/matzehuels/topiccloud/pkg/scene"
	"github.com/matzehuels/topiccloud/pkg/selection"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// selectPath is the URL prefix the click script posts indices to.
const selectPath = "/api/select/"

// cloud is one committed word cloud with its selection state.
type cloud struct {
	scene      scene.Scene
	svg        []byte
	panel      *selection.Panel
	dispatcher *selection.Dispatcher
}

// Reload loads the topics again and recomputes the cloud. A reload that is
// overtaken by a newer one returns a SUPERSEDED error and leaves the newer
// result in place.
func (s *Server) Reload(ctx context.Context) error {
	_, err := s.reload(ctx)
	return err
}

// reload is Reload returning the cloud it committed. The result stays
// valid even if the target is invalidated afterwards.
func (s *Server) reload(ctx context.Context) (*cloud, error) {
	tk := s.target.Begin()

	ts, err := s.runner.LoadFrom(ctx, s.source)
	if err != nil {
		return nil, err
	}

	opts := s.opts
	opts.Formats = []string{pipeline.FormatSVG}
	opts.ClickURL = selectPath
	opts.OnProvisional = func(sc scene.Scene) {
		// Show the fallback layout until the measured one is ready.
		if _, _, ok := s.target.Current(); ok {
			return
		}
		svg := sink.RenderSVG(sc, sink.WithMargin(opts.Margin), sink.WithClickURL(selectPath))
		_ = s.target.Commit(tk, sc.Placements(), s.newCloud(ts, sc, svg))
	}

	res, err := s.runner.ExecuteTopics(ctx, ts, opts)
	if err != nil {
		return nil, fmt.Errorf("compute cloud: %w", err)
	}

	c := s.newCloud(ts, res.Scene, res.Artifacts[pipeline.FormatSVG])
	if err := s.target.Commit(tk, res.Scene.Placements(), c); err != nil {
		if errors.Is(err, errors.ErrCodeSuperseded) {
			observability.Selection().OnSuperseded(ctx, tk.Generation)
			s.logger.Debug("discarded superseded cloud", "generation", tk.Generation)
		}
		return nil, err
	}

	v, _ := s.target.Viewport()
	s.logger.Info("cloud ready",
		"words", res.Scene.Len(),
		"viewport", fmt.Sprintf("%.0fx%.0f", v.W, v.H),
		"scene_cached", res.CacheInfo.SceneHit)
	return c, nil
}

// Invalidate drops the current cloud. Requests fail with 503 until the
// next Reload commits.
func (s *Server) Invalidate() { s.target.Invalidate() }

func (s *Server) newCloud(ts []topic.Topic, sc scene.Scene, svg []byte) *cloud {
	panel := selection.NewPanel(ts)
	panel.SetClassifier(sc.Classifier)

	d := selection.NewDispatcher(topic.Labels(ts), nil)
	callbacks := []func(int){panel.Select, s.hub.Callback(d)}
	if s.publisher != nil {
		callbacks = append(callbacks, s.publisher.Callback(d))
	}
	d.OnSelect = selection.Fanout(callbacks...)

	return &cloud{scene: sc, svg: svg, panel: panel, dispatcher: d}
}

// current returns the committed cloud.
func (s *Server) current() (*cloud, bool) {
	c, _, ok := s.target.Current()
	return c, ok && c != nil
}
