package settings

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// Validate checks the settings a backend is about to persist. All problems are reported, joined.
func (s GlobalSettings) Validate() error {
	var errs []error

	if s.ItemsPerPage < 1 {
		errs = append(errs, &ValidationError{Field: "itemsPerPage", Reason: "must be at least 1"})
	}
	if s.LabelsLimit < 1 {
		errs = append(errs, &ValidationError{Field: "labelsLimit", Reason: "must be at least 1"})
	}
	if s.LogsAutoRefreshTimeInterval < 0 {
		errs = append(errs, &ValidationError{Field: "logsAutoRefreshTimeInterval", Reason: "must not be negative"})
	}
	if s.ResourceAutoRefreshTimeInterval < 0 {
		errs = append(errs, &ValidationError{Field: "resourceAutoRefreshTimeInterval", Reason: "must not be negative"})
	}

	if e := validateNamespace("defaultNamespace", s.DefaultNamespace); e != nil {
		errs = append(errs, e)
	}
	for i, each := range s.NamespaceFallbackList {
		if e := validateNamespace(fmt.Sprintf("namespaceFallbackList[%d]", i), each); e != nil {
			errs = append(errs, e)
		}
	}

	return errors.Join(errs...)
}

func validateNamespace(field, ns string) error {
	if msgs := validation.IsDNS1123Label(ns); len(msgs) > 0 {
		return &ValidationError{Field: field, Reason: strings.Join(msgs, "; ")}
	}
	return nil
}
