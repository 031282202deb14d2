package cube

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

// VarStmt declares a variable in the current scope. Inside a class body it
// declares an instance field.
type VarStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *VarStmt) stmtNode()     {}
func (s *VarStmt) Pos() Position { return s.position }

// FunctionStmt declares a named function. Inside a class body it declares a
// method, an accessor (get_x/set_x) or the constructor (new).
type FunctionStmt struct {
	Name     string
	Params   []string
	Body     []Statement
	position Position
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.position }

// ClassStmt declares a script class backed by an optional native base type.
type ClassStmt struct {
	Name       string
	Extends    string
	Implements []string
	Body       []Statement
	position   Position
}

func (s *ClassStmt) stmtNode()     {}
func (s *ClassStmt) Pos() Position { return s.position }

// ImportStmt binds the final segment of a dotted path to a registered native
// type, subject to the engine blocklist.
type ImportStmt struct {
	Path     []string
	position Position
}

func (s *ImportStmt) stmtNode()     {}
func (s *ImportStmt) Pos() Position { return s.position }

type AssignStmt struct {
	Target   Expression
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type BreakStmt struct {
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type ContinueStmt struct {
	position Position
}

func (s *ContinueStmt) stmtNode()     {}
func (s *ContinueStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition  Expression
	Consequent []Statement
	Alternate  []Statement
	position   Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type ForStmt struct {
	Iterator string
	Iterable Expression
	Body     []Statement
	position Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

type BlockStmt struct {
	Body     []Statement
	position Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() Position { return e.position }

type FloatLiteral struct {
	Value    float64
	position Position
}

func (e *FloatLiteral) exprNode()     {}
func (e *FloatLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

type BooleanLiteral struct {
	Value    bool
	position Position
}

func (e *BooleanLiteral) exprNode()     {}
func (e *BooleanLiteral) Pos() Position { return e.position }

type NullLiteral struct {
	position Position
}

func (e *NullLiteral) exprNode()     {}
func (e *NullLiteral) Pos() Position { return e.position }

type ArrayLiteral struct {
	Elements []Expression
	position Position
}

func (e *ArrayLiteral) exprNode()     {}
func (e *ArrayLiteral) Pos() Position { return e.position }

// MapLiteral uses [key => value, ...] entries; [] is an empty array, [=>] an
// empty map.
type MapLiteral struct {
	Keys     []Expression
	Values   []Expression
	position Position
}

func (e *MapLiteral) exprNode()     {}
func (e *MapLiteral) Pos() Position { return e.position }

type FunctionLiteral struct {
	Params   []string
	Body     []Statement
	position Position
}

func (e *FunctionLiteral) exprNode()     {}
func (e *FunctionLiteral) Pos() Position { return e.position }

type PrefixExpr struct {
	Operator string
	Right    Expression
	position Position
}

func (e *PrefixExpr) exprNode()     {}
func (e *PrefixExpr) Pos() Position { return e.position }

type InfixExpr struct {
	Operator string
	Left     Expression
	Right    Expression
	position Position
}

func (e *InfixExpr) exprNode()     {}
func (e *InfixExpr) Pos() Position { return e.position }

type CallExpr struct {
	Callee   Expression
	Args     []Expression
	position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

type MemberExpr struct {
	Object   Expression
	Property string
	position Position
}

func (e *MemberExpr) exprNode()     {}
func (e *MemberExpr) Pos() Position { return e.position }

type IndexExpr struct {
	Object   Expression
	Index    Expression
	position Position
}

func (e *IndexExpr) exprNode()     {}
func (e *IndexExpr) Pos() Position { return e.position }

// NewExpr instantiates a script class or a registered native type.
type NewExpr struct {
	Name     string
	Args     []Expression
	position Position
}

func (e *NewExpr) exprNode()     {}
func (e *NewExpr) Pos() Position { return e.position }
