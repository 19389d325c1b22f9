package testutil

import "testing"

func TestTreeBuildsFixture(t *testing.T) {
	tr := NewTree(t)
	tr.Mkdir("sub")
	tr.File("sub/a.txt", "hello")

	tr.AssertExists("sub/a.txt")
	tr.AssertNotExists("sub/missing.txt")
}

func TestTreeHardlink(t *testing.T) {
	tr := NewTree(t)
	tr.File("a.txt", "hello")
	tr.Hardlink("a.txt", "b.txt")

	tr.AssertExists("b.txt")
}
