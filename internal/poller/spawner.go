package poller

import "github.com/huangsam/gitpick/internal/procreader"

// ProcessSpawner starts real OS processes through procreader.
type ProcessSpawner struct{}

var _ Spawner = ProcessSpawner{} // Compile-time check

// Spawn implements Spawner.
func (ProcessSpawner) Spawn(argv []string, dir string) (Stream, error) {
	p, err := procreader.Start(argv, dir)
	if err != nil {
		return nil, err
	}
	return p, nil
}
