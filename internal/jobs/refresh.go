package jobs

import (
	"context"

	"github.com/emrgen/happix/internal/service"
	"github.com/sirupsen/logrus"
)

// Refresher is the part of the source service the refresh task needs.
type Refresher interface {
	RefreshSource(ctx context.Context, component service.Component) (bool, error)
}

// RefreshTask periodically regenerates the templates of a fixed set of components.
type RefreshTask struct {
	refresher  Refresher
	components []service.Component
	cron       string
}

func NewRefreshTask(schedule string, refresher Refresher, components ...service.Component) *RefreshTask {
	return &RefreshTask{
		refresher:  refresher,
		components: components,
		cron:       schedule,
	}
}

func (r *RefreshTask) ID() string {
	return "source_refresh"
}

func (r *RefreshTask) Schedule() string {
	return r.cron
}

func (r *RefreshTask) Run() {
	for _, component := range r.components {
		ok, err := r.refresher.RefreshSource(context.Background(), component)
		if err != nil {
			logrus.Errorf("refresh of resource %s failed: %v", component.ResourceID, err)
			continue
		}
		if !ok {
			logrus.Warnf("extraction failed for resource %s, stats recomputed from the previous template", component.ResourceID)
		}
	}
}
