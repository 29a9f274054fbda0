package t2048

// Rand is the random source used for spawning. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// DefaultSpawnFour is the probability that a spawned tile is a 4 instead of a 2.
const DefaultSpawnFour = 0.10

// SpawnTile places one new tile (2, or 4 with probability spawnFour) on a
// uniformly chosen empty slot. A full board is returned unchanged.
func SpawnTile(b Board, rng Rand, ids IDSource, spawnFour float64) Board {
	emptyCells := EmptyCells(b)
	if len(emptyCells) == 0 {
		return b
	}

	cell := emptyCells[rng.Intn(len(emptyCells))]

	value := 2
	if rng.Float64() < spawnFour {
		value = 4
	}

	b[cell.Y][cell.X] = Tile{Value: value, ID: ids.NextID(), IsNew: true}
	return b
}
