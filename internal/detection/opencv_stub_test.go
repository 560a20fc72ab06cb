//go:build !gocv
// +build !gocv

package detection

import "testing"

func TestDefaultTransform_PureGo(t *testing.T) {
	if _, ok := DefaultTransform().(HoughTransform); !ok {
		t.Errorf("builds without gocv should default to HoughTransform, got %T", DefaultTransform())
	}
}
