package jsast

// Grammar kinds shared by the JavaScript and TypeScript grammars.
const (
	KindProgram      = "program"
	KindHashbang     = "hash_bang_line"
	KindComment      = "comment"
	KindError        = "ERROR"
	KindIdentifier   = "identifier"
	KindString       = "string"
	KindFragment     = "string_fragment"
	KindTypeIdent    = "type_identifier"
	KindPropIdent    = "property_identifier"
	KindShorthand    = "shorthand_property_identifier"
	KindShorthandPat = "shorthand_property_identifier_pattern"

	KindImportStatement = "import_statement"
	KindImportClause    = "import_clause"
	KindNamespaceImport = "namespace_import"
	KindNamedImports    = "named_imports"
	KindImportSpecifier = "import_specifier"

	KindLexicalDecl   = "lexical_declaration"
	KindVariableDecl  = "variable_declaration"
	KindDeclarator    = "variable_declarator"
	KindObjectPattern = "object_pattern"
	KindPairPattern   = "pair_pattern"
	KindAssignPattern = "object_assignment_pattern"

	KindCall          = "call_expression"
	KindArguments     = "arguments"
	KindMember        = "member_expression"
	KindOptionalChain = "optional_chain"
	KindTypeArguments = "type_arguments"
)

// KindRaw marks a synthetic leaf whose text is printed verbatim, without
// the spacing Print puts between synthetic tokens.
const KindRaw = "raw"

// identifierKinds are the leaf kinds that can introduce or reference a
// binding. Property names are not included: they never shadow anything.
var identifierKinds = map[string]bool{
	KindIdentifier:   true,
	KindShorthand:    true,
	KindShorthandPat: true,
	KindTypeIdent:    true,
}
