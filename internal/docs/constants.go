package docs

const (
	goFileExtension         = ".go"
	pythonFileExtension     = ".py"
	javaScriptFileExtension = ".js"
	jsxFileExtension        = ".jsx"
	typeScriptFileExtension = ".ts"
	tsxFileExtension        = ".tsx"

	documentationKindPackage   = "package"
	documentationKindFunction  = "function"
	documentationKindModule    = "module"
	documentationKindClass     = "class"
	documentationKindMethod    = "method"
	documentationKindType      = "type"
	documentationKindInterface = "interface"
	documentationKindEnum      = "enum"

	qualifiedNameSeparator = "."
)
