package grammar

import "github.com/piilip/neon/internal/token"

// Non-terminal symbols, appended to the shared token.Symbol enumeration
// starting at token.FirstNonTerminal so terminals and non-terminals remain
// one contiguous, disjoint space.
const (
	NTProgram token.Symbol = token.FirstNonTerminal + iota
	NTStmts
	NTStmt

	NTExpr
	NTDisjunction
	NTConjunction
	NTNegation
	NTRelation
	NTSum
	NTTerm
	NTFactor

	NTBlock

	NTFunction
	NTFunctionArgs
	NTFunctionArg

	NTCall
	NTCallHeader
	NTCallArgs
	NTCallArg

	NTIfStatement
	NTIfStatementElse

	NTForStatement
	NTForInit
	NTForUpdate

	NTAssertStatement
	NTImportStatement

	NTTypeDeclaration
	NTTypeMembers
	NTTypeMember

	NTVariableDefinition
	NTAssignment
	NTVariable
	NTArrayIndex

	// NTAugmentedStart is the fresh start symbol of the augmented grammar;
	// Neon() adds its single production (NTAugmentedStart -> NTProgram)
	// next to the rest of the grammar.
	NTAugmentedStart
)

func init() {
	names := map[token.Symbol]string{
		NTProgram:            "PROGRAM",
		NTStmts:              "STMTS",
		NTStmt:               "STMT",
		NTExpr:               "EXPR",
		NTDisjunction:        "DISJUNCTION",
		NTConjunction:        "CONJUNCTION",
		NTNegation:           "NEGATION",
		NTRelation:           "RELATION",
		NTSum:                "SUM",
		NTTerm:               "TERM",
		NTFactor:             "FACTOR",
		NTBlock:              "BLOCK",
		NTFunction:           "FUNCTION",
		NTFunctionArgs:       "FUNCTION_ARGS",
		NTFunctionArg:        "FUNCTION_ARG",
		NTCall:               "CALL",
		NTCallHeader:         "CALL_HEADER",
		NTCallArgs:           "CALL_ARGS",
		NTCallArg:            "CALL_ARG",
		NTIfStatement:        "IF_STATEMENT",
		NTIfStatementElse:    "IF_STATEMENT_ELSE",
		NTForStatement:       "FOR_STATEMENT",
		NTForInit:            "FOR_INIT",
		NTForUpdate:          "FOR_UPDATE",
		NTAssertStatement:    "ASSERT_STATEMENT",
		NTImportStatement:    "IMPORT_STATEMENT",
		NTTypeDeclaration:    "TYPE_DECLARATION",
		NTTypeMembers:        "TYPE_MEMBERS",
		NTTypeMember:         "TYPE_MEMBER",
		NTVariableDefinition: "VARIABLE_DEFINITION",
		NTAssignment:         "ASSIGNMENT",
		NTVariable:           "VARIABLE",
		NTArrayIndex:         "ARRAY_INDEX",
		NTAugmentedStart:     "START",
	}
	for s, n := range names {
		token.RegisterName(s, n)
	}
}

// sym is shorthand local to this file.
type sym = token.Symbol

// rule is a terser constructor for Production used only while laying out the
// concrete grammar below.
func rule(left sym, right ...sym) Production {
	return Production{Left: left, Right: right}
}

// Neon returns the context-free grammar for .ne source files, already
// augmented with NTAugmentedStart -> NTProgram and started at
// NTAugmentedStart, ready for internal/lr to build the LR automaton from.
//
// The keyword "type" introduces a composite type declaration. Without a
// dedicated introducing keyword TYPE_DECLARATION could never be reduced, so
// the lexer's keyword set includes "type" (see DESIGN.md for the rationale).
func Neon() *Grammar {
	t := terminals{
		Semicolon:    token.SymSemicolon,
		Return:       token.SymReturn,
		Or:           token.SymOr,
		And:          token.SymAnd,
		Not:          token.SymNot,
		Eq:           token.SymEq,
		Neq:          token.SymNeq,
		Le:           token.SymLe,
		Lt:           token.SymLt,
		Ge:           token.SymGe,
		Gt:           token.SymGt,
		Plus:         token.SymPlus,
		Minus:        token.SymMinus,
		Star:         token.SymStar,
		Slash:        token.SymSlash,
		LeftParen:    token.SymLeftParen,
		RightParen:   token.SymRightParen,
		LeftBrace:    token.SymLeftBrace,
		RightBrace:   token.SymRightBrace,
		LeftBracket:  token.SymLeftBracket,
		RightBracket: token.SymRightBracket,
		Comma:        token.SymComma,
		Integer:      token.SymInteger,
		Float:        token.SymFloat,
		True:         token.SymTrue,
		False:        token.SymFalse,
		VariableName: token.SymVariableName,
		DataType:     token.SymDataType,
		Fun:          token.SymFun,
		Extern:       token.SymExtern,
		Assign:       token.SymAssign,
		For:          token.SymFor,
		Assert:       token.SymAssert,
		Import:       token.SymImport,
		String:       token.SymString,
		Type:         token.SymType,
		If:           token.SymIf,
		Else:         token.SymElse,
	}

	productions := []Production{
		// PROGRAM: a sequence of top-level statements, or nothing at all
		// (an empty source file is a valid, do-nothing module).
		rule(NTProgram, NTStmts),
		rule(NTProgram),

		// STMTS: structural constructs (function/if/for/import/type
		// declarations) bypass STMT wrapping entirely and reduce straight to
		// STMTS, matching the unwrapped Function/IfStatement/... AST
		// variants; only genuine expression/return/declaration/empty
		// statements go through STMT.
		rule(NTStmts, NTStmts, NTStmt),
		rule(NTStmts, NTStmt),
		rule(NTStmts, NTStmts, NTFunction),
		rule(NTStmts, NTFunction),
		rule(NTStmts, NTStmts, NTIfStatement),
		rule(NTStmts, NTIfStatement),
		rule(NTStmts, NTStmts, NTForStatement),
		rule(NTStmts, NTForStatement),
		rule(NTStmts, NTStmts, NTImportStatement),
		rule(NTStmts, NTImportStatement),
		rule(NTStmts, NTStmts, NTTypeDeclaration),
		rule(NTStmts, NTTypeDeclaration),

		// STMT
		rule(NTStmt, NTVariableDefinition, t.Semicolon),
		rule(NTStmt, NTAssignment, t.Semicolon),
		rule(NTStmt, NTExpr, t.Semicolon),
		rule(NTStmt, NTAssertStatement, t.Semicolon),
		rule(NTStmt, t.Return, NTExpr, t.Semicolon),
		rule(NTStmt, t.Return, t.Semicolon),
		rule(NTStmt, t.Semicolon),

		// Expression precedence chain: EXPR -> ... -> FACTOR. Left
		// recursion at each binary level encodes left-associativity.
		rule(NTExpr, NTDisjunction),

		rule(NTDisjunction, NTDisjunction, t.Or, NTConjunction),
		rule(NTDisjunction, NTConjunction),

		rule(NTConjunction, NTConjunction, t.And, NTNegation),
		rule(NTConjunction, NTNegation),

		rule(NTNegation, t.Not, NTNegation),
		rule(NTNegation, NTRelation),

		rule(NTRelation, NTRelation, t.Eq, NTSum),
		rule(NTRelation, NTRelation, t.Neq, NTSum),
		rule(NTRelation, NTRelation, t.Le, NTSum),
		rule(NTRelation, NTRelation, t.Lt, NTSum),
		rule(NTRelation, NTRelation, t.Ge, NTSum),
		rule(NTRelation, NTRelation, t.Gt, NTSum),
		rule(NTRelation, NTSum),

		rule(NTSum, NTSum, t.Plus, NTTerm),
		rule(NTSum, NTSum, t.Minus, NTTerm),
		rule(NTSum, NTTerm),

		rule(NTTerm, NTTerm, t.Star, NTFactor),
		rule(NTTerm, NTTerm, t.Slash, NTFactor),
		rule(NTTerm, NTFactor),

		rule(NTFactor, t.LeftParen, NTExpr, t.RightParen),
		rule(NTFactor, t.Integer),
		rule(NTFactor, t.Float),
		rule(NTFactor, t.True),
		rule(NTFactor, t.False),
		rule(NTFactor, NTVariable),
		rule(NTFactor, NTCall),

		// BLOCK: shared by function bodies, if/else bodies, and for bodies.
		rule(NTBlock, t.LeftBrace, NTStmts, t.RightBrace),
		rule(NTBlock, t.LeftBrace, t.RightBrace),

		// FUNCTION: a definition has a BLOCK body; an extern declaration
		// (binding to a function defined elsewhere, e.g. in libc) ends in a
		// bare semicolon instead.
		rule(NTFunction, t.Fun, t.VariableName, t.LeftParen, NTFunctionArgs, t.RightParen, t.DataType, NTBlock),
		rule(NTFunction, t.Extern, t.Fun, t.VariableName, t.LeftParen, NTFunctionArgs, t.RightParen, t.DataType, t.Semicolon),

		rule(NTFunctionArgs, NTFunctionArgs, t.Comma, NTFunctionArg),
		rule(NTFunctionArgs, NTFunctionArg),
		rule(NTFunctionArgs), // no parameters

		rule(NTFunctionArg, t.DataType, t.VariableName),

		// CALL: CALL_HEADER factors out "name (" so the automaton commits to
		// a call (rather than a bare VARIABLE factor) as soon as it sees the
		// opening paren.
		rule(NTCall, NTCallHeader, t.RightParen),
		rule(NTCall, NTCallHeader, NTCallArgs, t.RightParen),
		rule(NTCallHeader, t.VariableName, t.LeftParen),

		rule(NTCallArgs, NTCallArgs, t.Comma, NTCallArg),
		rule(NTCallArgs, NTCallArg),

		rule(NTCallArg, NTExpr),

		// IF_STATEMENT: both branches are braced BLOCKs, so ELSE is not in
		// FOLLOW(NTIfStatementElse) and its epsilon alternative raises no
		// shift/reduce conflict on ELSE (no dangling-else ambiguity).
		rule(NTIfStatement, t.If, t.LeftParen, NTExpr, t.RightParen, NTBlock, NTIfStatementElse),
		rule(NTIfStatementElse, t.Else, NTBlock),
		rule(NTIfStatementElse),

		// FOR_STATEMENT
		rule(NTForStatement, t.For, t.LeftParen, NTForInit, t.Semicolon, NTExpr, t.Semicolon, NTForUpdate, t.RightParen, NTBlock),
		rule(NTForInit, NTAssignment),
		rule(NTForInit),
		rule(NTForUpdate, NTAssignment),
		rule(NTForUpdate),

		rule(NTAssertStatement, t.Assert, t.LeftParen, NTExpr, t.RightParen),

		rule(NTImportStatement, t.Import, t.String),

		// TYPE_DECLARATION: a member's declared type is either a primitive
		// DATA_TYPE keyword or the name of a previously declared composite
		// type (a bare VARIABLE_NAME).
		rule(NTTypeDeclaration, t.Type, t.VariableName, t.LeftBrace, NTTypeMembers, t.RightBrace),
		rule(NTTypeMembers, NTTypeMembers, NTTypeMember),
		rule(NTTypeMembers, NTTypeMember),
		rule(NTTypeMember, t.DataType, t.VariableName, t.Semicolon),
		rule(NTTypeMember, t.VariableName, t.VariableName, t.Semicolon),

		rule(NTVariableDefinition, t.DataType, t.VariableName),

		// ASSIGNMENT covers both "declare and initialize" and "reassign an
		// existing variable", including an indexed LHS.
		rule(NTAssignment, NTVariableDefinition, t.Assign, NTExpr),
		rule(NTAssignment, NTVariable, t.Assign, NTExpr),

		rule(NTVariable, t.VariableName, NTArrayIndex),
		rule(NTVariable, t.VariableName),
		rule(NTArrayIndex, t.LeftBracket, NTExpr, t.RightBracket),
	}

	return New(NTAugmentedStart, append(productions, rule(NTAugmentedStart, NTProgram)))
}

// terminals is a struct of named terminal aliases so the production table
// above reads close to ordinary grammar notation instead of a wall of
// token.Sym* constant names.
type terminals struct {
	Semicolon, Return                                         sym
	Or, And, Not                                               sym
	Eq, Neq, Le, Lt, Ge, Gt                                     sym
	Plus, Minus, Star, Slash                                    sym
	LeftParen, RightParen, LeftBrace, RightBrace                sym
	LeftBracket, RightBracket, Comma                            sym
	Integer, Float, True, False, VariableName, DataType, String sym
	Fun, Extern, Assign, For, Assert, Import, Type, If, Else    sym
}
