package model

import (
	"crypto/md5"
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-universe/rules"
)

const (
	DefaultWidth   = 64
	DefaultHeight  = 64
	DefaultDensity = 0.5

	historySize    = 5
	stagnantWindow = 3
)

var (
	ErrOutOfRange        = errors.New("coordinate out of range")
	ErrInvalidDimensions = errors.New("width and height must be positive")
	ErrGridTooSmall      = errors.New("grid too small for pattern")
)

// gliderCells are the (row, column) positions of the seed glider
var gliderCells = [...][2]int{{1, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}}

// Change summarises what the last Tick did
type Change struct {
	Births int
	Deaths int
}

type snapshot struct {
	generation int
	hash       string
}

// Universe is a fixed-size toroidal Life grid
type Universe struct {
	width  int
	height int
	cells  []Cell
	next   []Cell // scratch buffer for the generation being computed

	generation int
	last       Change
	history    []snapshot

	workers int
	pool    *BufferPool
}

type options struct {
	rng     *rand.Rand
	density float64
	glider  bool
	workers int
	pool    *BufferPool
}

// Option configures NewUniverse
type Option func(*options)

// WithRand sets the randomness source used for the initial cell states
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithDensity sets the probability of a cell starting Alive. Zero starts
// with an all-dead grid.
func WithDensity(density float64) Option {
	return func(o *options) { o.density = density }
}

// WithoutGlider skips the seed glider
func WithoutGlider() Option {
	return func(o *options) { o.glider = false }
}

// WithWorkers splits Tick across n row bands. Zero uses one band per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		o.workers = n
	}
}

// WithPool draws the cell buffers from pool
func WithPool(pool *BufferPool) Option {
	return func(o *options) { o.pool = pool }
}

// New creates the default 64x64 universe with random cells and the seed glider
func New() *Universe {
	u, err := NewUniverse(DefaultWidth, DefaultHeight)
	if err != nil {
		panic(err)
	}
	return u
}

// NewUniverse creates a universe with the specified dimensions
func NewUniverse(width, height int, opts ...Option) (*Universe, error) {
	if width < 1 || height < 1 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewUniverse] got %dx%d", width, height)
	}

	o := options{density: DefaultDensity, glider: true, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := width * height
	u := &Universe{
		width:   width,
		height:  height,
		cells:   getBuffer(o.pool, n),
		next:    getBuffer(o.pool, n),
		workers: o.workers,
		pool:    o.pool,
	}

	if o.density > 0 {
		u.Randomize(o.rng, o.density)
	}
	if o.glider && u.fits(4, 4) {
		u.placeGlider()
	}
	return u, nil
}

// Width returns the number of columns
func (u *Universe) Width() int {
	return u.width
}

// Height returns the number of rows
func (u *Universe) Height() int {
	return u.height
}

// Generation returns how many times Tick has run
func (u *Universe) Generation() int {
	return u.generation
}

// LastChange returns the births and deaths of the most recent Tick
func (u *Universe) LastChange() Change {
	return u.last
}

// Cells returns the current generation in row-major order. The slice is
// owned by the universe and is only valid until the next Tick.
func (u *Universe) Cells() []Cell {
	return u.cells
}

// Bytes returns the current generation as raw bytes without copying.
// The same lifetime rules as Cells apply.
func (u *Universe) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(u.cells))), len(u.cells))
}

// Index maps (row, column) to an offset into Cells
func (u *Universe) Index(row, column int) (int, error) {
	if err := u.checkBounds("Index", row, column); err != nil {
		return 0, err
	}
	return u.index(row, column), nil
}

// LiveNeighborCount counts the live cells among the 8 toroidal neighbours
func (u *Universe) LiveNeighborCount(row, column int) (uint8, error) {
	if err := u.checkBounds("LiveNeighborCount", row, column); err != nil {
		return 0, err
	}
	return u.liveNeighborCount(row, column), nil
}

// Get returns the cell at (row, column)
func (u *Universe) Get(row, column int) (Cell, error) {
	if err := u.checkBounds("Get", row, column); err != nil {
		return Dead, err
	}
	return u.cells[u.index(row, column)], nil
}

// Set sets the cell at (row, column)
func (u *Universe) Set(row, column int, c Cell) error {
	if err := u.checkBounds("Set", row, column); err != nil {
		return err
	}
	u.cells[u.index(row, column)] = c
	return nil
}

// SetAlive marks the cell at (row, column) Alive
func (u *Universe) SetAlive(row, column int) error {
	if err := u.checkBounds("SetAlive", row, column); err != nil {
		return err
	}
	u.cells[u.index(row, column)] = Alive
	return nil
}

// Toggle flips the cell at (row, column)
func (u *Universe) Toggle(row, column int) error {
	if err := u.checkBounds("Toggle", row, column); err != nil {
		return err
	}
	idx := u.index(row, column)
	u.cells[idx] = cellOf(!u.cells[idx].IsAlive())
	return nil
}

// GenerateGlider places the five-cell glider near the top-left corner
func (u *Universe) GenerateGlider() error {
	if !u.fits(4, 4) {
		return errors.Wrapf(ErrGridTooSmall, "[GenerateGlider] glider needs 4x4, grid is %dx%d", u.width, u.height)
	}
	u.placeGlider()
	return nil
}

// Tick advances the universe by one generation
func (u *Universe) Tick() {
	var change Change
	if u.workers > 1 && u.height > 1 {
		change = u.tickParallel()
	} else {
		change = u.tickRows(0, u.height)
	}

	u.cells, u.next = u.next, u.cells
	u.last = change
	u.generation++
}

// tickParallel computes the next generation in row bands
func (u *Universe) tickParallel() Change {
	var (
		eg            errgroup.Group
		workers       = min(u.workers, u.height)
		rowsPerWorker = (u.height + workers - 1) / workers // Ceiling division
		changes       = make([]Change, workers)
	)

	for i := range workers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, u.height)
		)
		if startRow >= u.height {
			break
		}

		eg.Go(func() error {
			changes[i] = u.tickRows(startRow, endRow)
			return nil
		})
	}

	// bands never fail
	_ = eg.Wait()

	var total Change
	for _, c := range changes {
		total.Births += c.Births
		total.Deaths += c.Deaths
	}
	return total
}

// tickRows writes the next state of rows [start, end) into the scratch buffer
func (u *Universe) tickRows(start, end int) (change Change) {
	for row := start; row < end; row++ {
		for col := range u.width {
			idx := u.index(row, col)
			alive, reason := rules.Next(u.cells[idx].IsAlive(), int(u.liveNeighborCount(row, col)))
			u.next[idx] = cellOf(alive)

			switch reason {
			case rules.Reproduction:
				change.Births++
			case rules.Underpopulation, rules.Overpopulation:
				change.Deaths++
			}
		}
	}
	return
}

// CountLiving returns the total number of living cells
func (u *Universe) CountLiving() (count int) {
	for _, c := range u.cells {
		if c.IsAlive() {
			count++
		}
	}
	return
}

// Clear kills every cell and forgets the history
func (u *Universe) Clear() {
	clear(u.cells)
	u.history = nil
	u.last = Change{}
}

// Randomize sets every cell Alive with probability density
func (u *Universe) Randomize(rng *rand.Rand, density float64) {
	for i := range u.cells {
		u.cells[i] = cellOf(rng.Float64() < density)
	}
	u.history = nil
}

// InjectRandomLife sets count random cells Alive
func (u *Universe) InjectRandomLife(rng *rand.Rand, count int) {
	for range count {
		u.cells[rng.Intn(len(u.cells))] = Alive
	}
}

// Hash returns the MD5 hash of the current generation
func (u *Universe) Hash() string {
	return fmt.Sprintf("%x", md5.Sum(u.Bytes()))
}

// UpdateHistory records the current generation for stagnation detection
func (u *Universe) UpdateHistory() {
	if n := len(u.history); n > 0 && u.history[n-1].generation == u.generation {
		return
	}
	u.history = append(u.history, snapshot{generation: u.generation, hash: u.Hash()})

	// Keep only the most recent states
	if len(u.history) > historySize {
		u.history = u.history[1:]
	}
}

// IsStagnant reports whether the current generation repeats one of the
// previous three, which covers still lifes and period 2 and 3 oscillators
func (u *Universe) IsStagnant() bool {
	current := u.Hash()
	for i := len(u.history) - 1; i >= 0; i-- {
		s := u.history[i]
		if s.generation == u.generation {
			continue
		}
		if u.generation-s.generation > stagnantWindow {
			break
		}
		if s.hash == current {
			return true
		}
	}
	return false
}

// Release hands the cell buffers back to the pool. The universe must not
// be used afterwards.
func (u *Universe) Release() {
	if u.pool != nil {
		u.pool.Put(u.cells)
		u.pool.Put(u.next)
	}
	u.cells, u.next = nil, nil
}

// Render returns one line per row with one glyph per cell
func (u *Universe) Render() string {
	return u.String()
}

func (u *Universe) String() string {
	var b strings.Builder
	b.Grow(len(u.cells)*len(glyphAlive) + u.height)
	for row := range u.height {
		for _, c := range u.cells[row*u.width : (row+1)*u.width] {
			b.WriteString(c.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *Universe) placeGlider() {
	for _, p := range gliderCells {
		u.cells[u.index(p[0], p[1])] = Alive
	}
}

func (u *Universe) fits(rows, columns int) bool {
	return u.height >= rows && u.width >= columns
}

func (u *Universe) index(row, column int) int {
	return row*u.width + column
}

// liveNeighborCount wraps the row delta by height and the column delta by width
func (u *Universe) liveNeighborCount(row, column int) uint8 {
	var count uint8
	for _, dr := range [3]int{u.height - 1, 0, 1} {
		for _, dc := range [3]int{u.width - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr) % u.height
			c := (column + dc) % u.width
			count += uint8(u.cells[u.index(r, c)])
		}
	}
	return count
}

func (u *Universe) checkBounds(op string, row, column int) error {
	if row < 0 || row >= u.height || column < 0 || column >= u.width {
		return errors.Wrapf(ErrOutOfRange, "[%s] (%d, %d) outside %dx%d grid", op, row, column, u.width, u.height)
	}
	return nil
}
