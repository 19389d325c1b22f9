package journal

import (
	"testing"

	"github.com/ivoronin/linkctl/internal/hardlink"
	"github.com/ivoronin/linkctl/internal/linktypes"
)

type fakeTagReader struct {
	kind   linktypes.Kind
	target string
	err    error
}

func (f fakeTagReader) ClassifyPath(string) (linktypes.Kind, string, error) {
	return f.kind, f.target, f.err
}

type fakeProber struct {
	info map[string]hardlink.Info
	err  error
}

func (f fakeProber) ProbePath(path string) (hardlink.Info, error) {
	if f.err != nil {
		return hardlink.Info{}, f.err
	}
	return f.info[path], nil
}

func TestClassifyReparsePoint(t *testing.T) {
	c := NewClassifier(fakeTagReader{kind: linktypes.Junction, target: `D:\data`}, fakeProber{})
	rec, ok, err := c.Classify(`C:\link`, fileAttributeReparsePoint)
	if err != nil || !ok {
		t.Fatalf("Classify() = %v, %v, %v", rec, ok, err)
	}
	if rec.Kind != linktypes.Junction || rec.Target != `D:\data` {
		t.Errorf("got %+v", rec)
	}
}

func TestClassifyDirectorySkipped(t *testing.T) {
	c := NewClassifier(fakeTagReader{}, fakeProber{})
	_, ok, err := c.Classify(`C:\dir`, fileAttributeDirectory)
	if err != nil || ok {
		t.Fatalf("expected skip, got ok=%v err=%v", ok, err)
	}
}

func TestClassifyNewHardlink(t *testing.T) {
	key := hardlink.Key{VolumeSerial: 1, FileIndex: 7}
	prober := fakeProber{info: map[string]hardlink.Info{
		`C:\a.txt`: {Key: key, LinkCount: 2},
	}}
	c := NewClassifier(fakeTagReader{}, prober)

	rec, ok, err := c.Classify(`C:\a.txt`, 0)
	if err != nil || !ok || rec.Kind != linktypes.Hardlink {
		t.Fatalf("expected hardlink record, got %+v ok=%v err=%v", rec, ok, err)
	}

	if _, ok, _ := c.Classify(`C:\a.txt`, 0); ok {
		t.Error("second probe of same (volume,index) should not re-emit")
	}
}

func TestClassifySingleLinkCountSkipped(t *testing.T) {
	prober := fakeProber{info: map[string]hardlink.Info{
		`C:\a.txt`: {Key: hardlink.Key{VolumeSerial: 1, FileIndex: 7}, LinkCount: 1},
	}}
	c := NewClassifier(fakeTagReader{}, prober)

	if _, ok, _ := c.Classify(`C:\a.txt`, 0); ok {
		t.Error("link count 1 should be skipped")
	}
}
