package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codnect.io/chrono"
	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/filetypes"
	gotel "github.com/GlintPay/gds/otel"
	"github.com/GlintPay/gds/settings"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	authorizationv1 "k8s.io/api/authorization/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"
)

func (s *Backend) Init(ctxt context.Context, appConfig config.ApplicationConfiguration) error {
	s.Config = appConfig.K8s
	s.Initial = appConfig.Defaults.InitialSettings()
	s.EnableTrace = appConfig.Tracing.Enabled

	if s.Clientset == nil {
		clientset, err := newClientset(s.Config)
		if err != nil {
			return err
		}
		s.Clientset = clientset
	}

	log.Info().Msgf("Settings stored in ConfigMap [%s/%s]", s.Config.NamespaceOrDefault(), s.Config.ConfigMapNameOrDefault())

	if s.Config.RefreshRateMillis > 0 {
		scheduler := chrono.NewDefaultTaskScheduler()

		period := time.Duration(s.Config.RefreshRateMillis) * time.Millisecond
		log.Info().Msgf("Scheduling settings refresh every %v", period)

		task, err := scheduler.ScheduleAtFixedRate(func(ctx context.Context) {
			if _, e := s.GetCurrentState(ctx, true); e != nil {
				log.Error().Err(e).Msgf("Settings refresh failed")
			}
		}, period)

		if err != nil {
			return err
		}
		s.refresh = task
	}

	return nil
}

func (s *Backend) GetCurrentState(ctxt context.Context, refresh bool) (*backend.State, error) {
	if !refresh {
		s.mu.RLock()
		cached := s.cached
		s.mu.RUnlock()

		if cached != nil {
			return copyState(cached), nil
		}
	}

	if s.EnableTrace {
		var span trace.Span
		ctxt, span = gotel.GetTracer(ctxt).Start(ctxt, "k8s-load-settings", gotel.ServerOptions)
		defer span.End()
	}

	ctxt, cancel := s.withTimeout(ctxt)
	defer cancel()

	cm, err := s.configMaps(ctxt).Get(ctxt, s.Config.ConfigMapNameOrDefault(), metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		if !s.Config.CreateIfMissing {
			return s.remember(&backend.State{Version: "", Settings: s.Initial.Copy()}), nil
		}
		return s.create(ctxt, s.Initial)
	}
	if err != nil {
		return nil, s.describe("get", err)
	}

	state, err := stateFromConfigMap(cm, s.Initial)
	if err != nil {
		return nil, err
	}
	return s.remember(state), nil
}

func (s *Backend) Save(ctxt context.Context, req backend.SaveRequest) (*backend.State, error) {
	if s.EnableTrace {
		var span trace.Span
		ctxt, span = gotel.GetTracer(ctxt).Start(ctxt, "k8s-save-settings", gotel.ServerOptions,
			trace.WithAttributes(attribute.Bool("force", req.Force)))
		defer span.End()
	}

	updated := req.Settings.Normalized()
	if e := updated.Validate(); e != nil {
		return nil, e
	}

	ctxt, cancel := s.withTimeout(ctxt)
	defer cancel()

	cm, err := s.configMaps(ctxt).Get(ctxt, s.Config.ConfigMapNameOrDefault(), metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		if !req.Force && req.Version != "" {
			return nil, settings.ErrConcurrentChange
		}
		return s.create(ctxt, updated)
	}
	if err != nil {
		return nil, s.describe("get", err)
	}

	current, err := stateFromConfigMap(cm, s.Initial)
	if err != nil && !req.Force {
		return nil, err
	}

	if !req.Force && req.Version != current.Version {
		log.Info().Msgf("Rejecting save at version [%s], ConfigMap is at [%s]", req.Version, current.Version)
		s.remember(current)
		return nil, settings.ErrConcurrentChange
	}

	payload, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}

	// Update carries the resourceVersion we just read, so a write racing ours surfaces as a Conflict
	cm = cm.DeepCopy()
	if cm.Data == nil {
		cm.Data = map[string]string{}
	}
	cm.Data[SettingsKey] = string(payload)

	if _, e := s.configMaps(ctxt).Update(ctxt, cm, metav1.UpdateOptions{}); e != nil {
		return nil, s.describe("update", e)
	}

	state := &backend.State{Version: filetypes.ContentVersion(payload), Settings: updated}
	log.Info().Msgf("Saved settings to ConfigMap [%s/%s] at version [%s]", cm.Namespace, cm.Name, state.Version)

	return s.remember(state), nil
}

func (s *Backend) CanI(ctxt context.Context) (bool, error) {
	ctxt, cancel := s.withTimeout(ctxt)
	defer cancel()

	review := &authorizationv1.SelfSubjectAccessReview{
		Spec: authorizationv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authorizationv1.ResourceAttributes{
				Namespace: s.Config.NamespaceOrDefault(),
				Verb:      "update",
				Resource:  "configmaps",
				Name:      s.Config.ConfigMapNameOrDefault(),
			},
		},
	}

	result, err := s.Clientset.AuthorizationV1().SelfSubjectAccessReviews().Create(ctxt, review, metav1.CreateOptions{})
	if err != nil {
		return false, s.describe("access review", err)
	}

	if !result.Status.Allowed {
		log.Debug().Msgf("Settings update not allowed: %s", result.Status.Reason)
	}
	return result.Status.Allowed, nil
}

func (s *Backend) Close() {
	if s.refresh != nil {
		s.refresh.Cancel()
	}
}

func (s *Backend) create(ctxt context.Context, initial settings.GlobalSettings) (*backend.State, error) {
	payload, err := json.Marshal(initial)
	if err != nil {
		return nil, err
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Config.ConfigMapNameOrDefault(),
			Namespace: s.Config.NamespaceOrDefault(),
		},
		Data: map[string]string{SettingsKey: string(payload)},
	}

	if _, e := s.configMaps(ctxt).Create(ctxt, cm, metav1.CreateOptions{}); e != nil {
		if apierrors.IsAlreadyExists(e) {
			return nil, settings.ErrConcurrentChange
		}
		return nil, s.describe("create", e)
	}

	log.Info().Msgf("Created settings ConfigMap [%s/%s]", cm.Namespace, cm.Name)
	return s.remember(&backend.State{Version: filetypes.ContentVersion(payload), Settings: initial.Copy()}), nil
}

func (s *Backend) describe(op string, err error) error {
	switch {
	case apierrors.IsConflict(err):
		return settings.ErrConcurrentChange
	case apierrors.IsForbidden(err):
		return fmt.Errorf("%w: %v", backend.ErrForbidden, err)
	}
	return fmt.Errorf("failed to %s configmap %s/%s: %w", op, s.Config.NamespaceOrDefault(), s.Config.ConfigMapNameOrDefault(), err)
}

func (s *Backend) configMaps(_ context.Context) typedcorev1.ConfigMapInterface {
	return s.Clientset.CoreV1().ConfigMaps(s.Config.NamespaceOrDefault())
}

func (s *Backend) remember(state *backend.State) *backend.State {
	s.mu.Lock()
	s.cached = state
	s.mu.Unlock()
	return copyState(state)
}

func (s *Backend) withTimeout(ctxt context.Context) (context.Context, context.CancelFunc) {
	if s.Config.TimeoutMillis <= 0 {
		return context.WithCancel(ctxt)
	}
	return context.WithTimeout(ctxt, time.Duration(s.Config.TimeoutMillis)*time.Millisecond)
}

func stateFromConfigMap(cm *corev1.ConfigMap, initial settings.GlobalSettings) (*backend.State, error) {
	payload, ok := cm.Data[SettingsKey]
	if !ok {
		return &backend.State{Version: "", Settings: initial.Copy()}, nil
	}

	var parsed settings.GlobalSettings
	if e := json.Unmarshal([]byte(payload), &parsed); e != nil {
		return &backend.State{Version: filetypes.ContentVersion([]byte(payload)), Settings: initial.Copy()},
			fmt.Errorf("cannot parse %s in configmap %s/%s: %w", SettingsKey, cm.Namespace, cm.Name, e)
	}

	return &backend.State{Version: filetypes.ContentVersion([]byte(payload)), Settings: parsed}, nil
}

func copyState(st *backend.State) *backend.State {
	return &backend.State{Version: st.Version, Settings: st.Settings.Copy()}
}
