package chunk

// TyFirstObject is the first object_id assigned to a user-declared object
// type. Ids below it are reserved for the primitive type kinds (void,
// bool, number, string) so a pushNil operand and a symbol table's
// primitive type tag never collide (spec §6.1).
const TyFirstObject = 4

// ProcKind distinguishes a procedure backed by bryony bytecode from one
// implemented by the host.
type ProcKind int

const (
	// Native procedures own a Chunk of bryony bytecode.
	Native ProcKind = iota
	// Foreign procedures are implemented by the embedding host and have no
	// Chunk; Script.AddForeignProc registers them under a proc_id the same
	// way AddProc does for native ones, so callD dispatches uniformly
	// (spec §6.4).
	Foreign
)

// ForeignFunc is a host-implemented procedure body. Its argument and result
// representation is deliberately left to the embedder: the compiler only
// needs an id and an arity to emit a callD, never the values themselves.
type ForeignFunc func(args []any) (any, error)

// Proc is one entry of a Script's procedure table, addressed by callD's
// proc_id operand.
type Proc struct {
	Name       string
	Kind       ProcKind
	ParamCount int
	HasResult  bool

	Chunk   *Chunk      // set when Kind == Native
	Foreign ForeignFunc // set when Kind == Foreign
}

// Script is the top-level unit produced by compiling one source file: its
// procedure table (addressed by proc_id) and the running count of
// user-declared object types (used to assign object_id as object
// declarations are processed).
type Script struct {
	Name      string
	Procs     []*Proc
	typeCount uint16
}

// NewScript returns an empty script named after its source file.
func NewScript(name string) *Script {
	return &Script{Name: name}
}

// AddProc registers a native procedure and returns its proc_id.
func (s *Script) AddProc(name string, paramCount int, hasResult bool, c *Chunk) uint16 {
	id := uint16(len(s.Procs))
	s.Procs = append(s.Procs, &Proc{Name: name, Kind: Native, ParamCount: paramCount, HasResult: hasResult, Chunk: c})
	return id
}

// ReserveProc appends a native procedure entry with no Chunk yet and
// returns its proc_id, letting a declaration be visible to its own
// (possibly recursive) body before that body finishes compiling. The
// caller must follow up with SetProcChunk once the Chunk exists.
func (s *Script) ReserveProc(name string, paramCount int, hasResult bool) uint16 {
	id := uint16(len(s.Procs))
	s.Procs = append(s.Procs, &Proc{Name: name, Kind: Native, ParamCount: paramCount, HasResult: hasResult})
	return id
}

// SetProcChunk fills in the Chunk of a procedure previously reserved with
// ReserveProc.
func (s *Script) SetProcChunk(id uint16, c *Chunk) {
	s.Procs[id].Chunk = c
}

// AddForeignProc registers a host-implemented procedure and returns its
// proc_id.
func (s *Script) AddForeignProc(name string, paramCount int, hasResult bool, fn ForeignFunc) uint16 {
	id := uint16(len(s.Procs))
	s.Procs = append(s.Procs, &Proc{Name: name, Kind: Foreign, ParamCount: paramCount, HasResult: hasResult, Foreign: fn})
	return id
}

// NextObjectID allocates and returns the object_id for the next declared
// object type.
func (s *Script) NextObjectID() uint16 {
	id := TyFirstObject + s.typeCount
	s.typeCount++
	return id
}
