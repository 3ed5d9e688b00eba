package types

// The built-in type universe: C++-ish base types and STL containers,
// Cython-flavored interop and binding spellings, and converters for the
// common cases. Callers extend it through the registration API or
// replace it wholesale via [Empty].

func defaultTables() Tables {
	return Tables{
		BaseTypes: setOf(
			"char", "uchar", "str",
			"int16", "int32", "int64",
			"uint16", "uint32", "uint64",
			"float32", "float64", "complex128",
			"void", "bool", "type",
		),

		Templates: map[string][]string{
			"map":    {"key_type", "value_type"},
			"dict":   {"key_type", "value_type"},
			"pair":   {"key_type", "value_type"},
			"set":    {"value_type"},
			"list":   {"value_type"},
			"tuple":  {"value_type"},
			"vector": {"value_type"},
		},

		Refined: map[string]RefinedDef{
			"posint": {
				Sig:    Signature{Name: "posint"},
				Parent: "int32",
			},
			"negint": {
				Sig:    Signature{Name: "negint"},
				Parent: "int32",
			},
			"enum": {
				Sig: Signature{Name: "enum", Params: []Param{
					{Name: "name", Type: "str"},
					{Name: "aliases", Type: []any{"dict", "str", "int32", 0}},
				}},
				Parent: "int32",
			},
			"function": {
				Sig: Signature{Name: "function", Params: []Param{
					{Name: "arguments", Type: []any{"list", []any{"pair", "str", "type"}}},
					{Name: "returns", Type: "type"},
				}},
				Parent: "void",
			},
			"function_pointer": {
				Sig: Signature{Name: "function_pointer", Params: []Param{
					{Name: "arguments", Type: []any{"list", []any{"pair", "str", "type"}}},
					{Name: "returns", Type: "type"},
				}},
				Parent: []any{"void", "*"},
			},
			"intrange": {
				Sig: Signature{Name: "intrange", Params: []Param{
					{Name: "low", Type: "int32"},
					{Name: "high", Type: "int32"},
				}},
				Parent: "int32",
			},
			"range": {
				Sig: Signature{Name: "range", Params: []Param{
					{Name: "vtype", Type: nil},
					{Name: "low", Type: "vtype"},
					{Name: "high", Type: "vtype"},
				}},
				Parent: "vtype",
			},
		},

		Aliases: map[string]any{
			"i":       "int32",
			"int":     "int32",
			"uint":    "uint32",
			"f":       "float64",
			"f4":      "float32",
			"f8":      "float64",
			"float":   "float64",
			"complex": "complex128",
			"b":       "bool",
			"v":       "void",
			"s":       "str",
			"string":  "str",
		},

		HumanNames: map[string]string{
			"char":       "character",
			"uchar":      "unsigned character",
			"str":        "string",
			"bool":       "boolean",
			"int16":      "short integer",
			"int32":      "integer",
			"int64":      "long integer",
			"uint16":     "unsigned short integer",
			"uint32":     "unsigned integer",
			"uint64":     "unsigned long integer",
			"float32":    "float",
			"float64":    "double",
			"complex128": "complex",
			"void":       "nothing",
			"map":        "map of ({key_type}, {value_type}) items",
			"dict":       "dict of ({key_type}, {value_type}) items",
			"pair":       "pair of ({key_type}, {value_type})",
			"set":        "set of {value_type}",
			"list":       "list of {value_type}",
			"tuple":      "tuple of {value_type}",
			"vector":     "vector [ndarray] of {value_type}",
		},

		NativeTypes: map[string]SpellEntry{
			"char":       Spell("char"),
			"uchar":      Spell("unsigned char"),
			"str":        Spell("std::string"),
			"int16":      Spell("short"),
			"int32":      Spell("int"),
			"int64":      Spell("long long"),
			"uint16":     Spell("unsigned short"),
			"uint32":     Spell("unsigned int"),
			"uint64":     Spell("unsigned long long"),
			"float32":    Spell("float"),
			"float64":    Spell("double"),
			"complex128": Spell("{extra_types}complex_t"),
			"bool":       Spell("bool"),
			"void":       Spell("void"),
			"type":       Spell("void"),
			"map":        Spell("std::map"),
			"dict":       Spell("std::map"),
			"pair":       Spell("std::pair"),
			"set":        Spell("std::set"),
			"list":       Spell("std::list"),
			"tuple":      Spell("std::vector"),
			"vector":     Spell("std::vector"),
			"true":       Spell("true"),
			"false":      Spell("false"),
		},

		InteropSpec: map[string]SpellEntry{
			"char":       Spell("char"),
			"uchar":      Spell("{extra_types}uchar"),
			"str":        Spell("std_string"),
			"int16":      Spell("short"),
			"int32":      Spell("int"),
			"int64":      Spell("long long"),
			"uint16":     Spell("unsigned short"),
			"uint32":     Spell("{extra_types}uint32"),
			"uint64":     Spell("unsigned long long"),
			"float32":    Spell("float"),
			"float64":    Spell("double"),
			"complex128": Spell("{extra_types}complex_t"),
			"bool":       Spell("bint"),
			"void":       Spell("void"),
			"type":       Spell("void"),
			"map":        Spell("cpp_map"),
			"dict":       Spell("dict"),
			"pair":       Spell("cpp_pair"),
			"set":        Spell("cpp_set"),
			"list":       Spell("cpp_list"),
			"tuple":      Spell("cpp_vector"),
			"vector":     Spell("cpp_vector"),
		},

		BindSpec: map[string]SpellEntry{
			"char":       Spell("chr"),
			"uchar":      Spell("chr"),
			"str":        Spell("str"),
			"int16":      Spell("int"),
			"int32":      Spell("int"),
			"int64":      Spell("int"),
			"uint16":     Spell("int"),
			"uint32":     Spell("int"),
			"uint64":     Spell("int"),
			"float32":    Spell("float"),
			"float64":    Spell("float"),
			"complex128": Spell("complex"),
			"bool":       Spell("bool"),
			"void":       Spell("object"),
			"type":       Spell("type"),
			"map":        Spell("{stlcontainers}_Map{key_type}{value_type}"),
			"dict":       Spell("dict"),
			"pair":       Spell("{stlcontainers}_Pair{key_type}{value_type}"),
			"set":        Spell("{stlcontainers}_Set{value_type}"),
			"list":       Spell("list"),
			"tuple":      Spell("tuple"),
			"vector":     Spell("np.ndarray"),
		},

		ElemKinds: map[string]string{
			"char":       "np.NPY_BYTE",
			"uchar":      "np.NPY_UBYTE",
			"str":        "np.NPY_STRING",
			"int16":      "np.NPY_INT16",
			"int32":      "np.NPY_INT32",
			"int64":      "np.NPY_INT64",
			"uint16":     "np.NPY_UINT16",
			"uint32":     "np.NPY_UINT32",
			"uint64":     "np.NPY_UINT64",
			"float32":    "np.NPY_FLOAT32",
			"float64":    "np.NPY_FLOAT64",
			"complex128": "np.NPY_COMPLEX128",
			"bool":       "np.NPY_BOOL",
			"vector":     "np.NPY_OBJECT",
		},

		FuncNames: map[string]string{
			"char":       "char",
			"uchar":      "uchar",
			"str":        "str",
			"int16":      "short",
			"int32":      "int",
			"int64":      "long",
			"uint16":     "ushort",
			"uint32":     "uint",
			"uint64":     "ulong",
			"float32":    "float",
			"float64":    "double",
			"complex128": "complex",
			"bool":       "bool",
			"void":       "void",
			"map":        "map_{key_type}_{value_type}",
			"dict":       "dict",
			"pair":       "pair_{key_type}_{value_type}",
			"set":        "set_{value_type}",
			"list":       "list_{value_type}",
			"tuple":      "tuple_{value_type}",
			"vector":     "vector_{value_type}",
		},

		ClassNames: map[string]string{
			"char":       "Char",
			"uchar":      "UChar",
			"str":        "Str",
			"int16":      "Short",
			"int32":      "Int",
			"int64":      "Long",
			"uint16":     "UShort",
			"uint32":     "UInt",
			"uint64":     "ULong",
			"float32":    "Float",
			"float64":    "Double",
			"complex128": "Complex",
			"bool":       "Bool",
			"void":       "Void",
			"map":        "Map{key_type}{value_type}",
			"dict":       "Dict",
			"pair":       "Pair{key_type}{value_type}",
			"set":        "Set{value_type}",
			"list":       "List{value_type}",
			"tuple":      "Tuple{value_type}",
			"vector":     "Vector{value_type}",
		},

		DeclImports: map[string]ImportEntry{
			"str": Imports(ImportRef{Module: "libcpp.string", Name: "string", Alias: "std_string"}),
			"map": Imports(ImportRef{Module: "libcpp.map", Name: "map", Alias: "cpp_map"}),
			"set": Imports(ImportRef{Module: "libcpp.set", Name: "set", Alias: "cpp_set"}),
			"list": Imports(
				ImportRef{Module: "libcpp.list", Name: "list", Alias: "cpp_list"}),
			"pair": Imports(ImportRef{Module: "libcpp.utility", Name: "pair", Alias: "cpp_pair"}),
			"vector": Imports(
				ImportRef{Module: "libcpp.vector", Name: "vector", Alias: "cpp_vector"},
				ImportRef{Module: "numpy", Alias: "np"}),
			"uchar":      Imports(ImportRef{Module: "{extra_types}"}),
			"uint32":     Imports(ImportRef{Module: "{extra_types}"}),
			"complex128": Imports(ImportRef{Module: "{extra_types}"}),
		},

		RunImports: map[string]ImportEntry{
			"map":    Imports(ImportRef{Module: "{stlcontainers}"}),
			"set":    Imports(ImportRef{Module: "{stlcontainers}"}),
			"pair":   Imports(ImportRef{Module: "{stlcontainers}"}),
			"vector": Imports(ImportRef{Module: "numpy", Alias: "np"}),
		},

		ToBind: map[string]ToBindEntry{
			"char":       {Tmpl: ToBindTemplate{`chr(<int> {{.Var}})`}},
			"uchar":      {Tmpl: ToBindTemplate{`chr(<unsigned int> {{.Var}})`}},
			"str":        {Tmpl: ToBindTemplate{`bytes(<char *> {{.Var}}.c_str()).decode()`}},
			"int16":      {Tmpl: ToBindTemplate{`int({{.Var}})`}},
			"int32":      {Tmpl: ToBindTemplate{`int({{.Var}})`}},
			"int64":      {Tmpl: ToBindTemplate{`int({{.Var}})`}},
			"uint16":     {Tmpl: ToBindTemplate{`int({{.Var}})`}},
			"uint32":     {Tmpl: ToBindTemplate{`int({{.Var}})`}},
			"uint64":     {Tmpl: ToBindTemplate{`int({{.Var}})`}},
			"float32":    {Tmpl: ToBindTemplate{`float({{.Var}})`}},
			"float64":    {Tmpl: ToBindTemplate{`float({{.Var}})`}},
			"complex128": {Tmpl: ToBindTemplate{`complex(float({{.Var}}.re), float({{.Var}}.im))`}},
			"bool":       {Tmpl: ToBindTemplate{`bool({{.Var}})`}},
			"void":       {Tmpl: ToBindTemplate{`None`}},
			"map": {Tmpl: ToBindTemplate{
				`{{.T.BindingNoPred}}({{.Var}})`,
				`{{.Proxy}} = {{.T.BindingNoPred}}(False, False)
{{.Proxy}}.map_ptr = &{{.Var}}`,
				`if {{.Cache}} is None:
    {{.Proxy}} = {{.T.BindingNoPred}}(False, False)
    {{.Proxy}}.map_ptr = &{{.Var}}
    {{.Cache}} = {{.Proxy}}`,
			}},
			"set": {Tmpl: ToBindTemplate{
				`{{.T.BindingNoPred}}({{.Var}})`,
				`{{.Proxy}} = {{.T.BindingNoPred}}(False, False)
{{.Proxy}}.set_ptr = &{{.Var}}`,
				`if {{.Cache}} is None:
    {{.Proxy}} = {{.T.BindingNoPred}}(False, False)
    {{.Proxy}}.set_ptr = &{{.Var}}
    {{.Cache}} = {{.Proxy}}`,
			}},
			"vector": {Tmpl: ToBindTemplate{
				`{{.T.BindingNoPred}}({{.Var}})`,
				`{{.Proxy}} = np.PyArray_SimpleNewFromData(1, {{.Var}}_shape, {{.T.ElemKind}}, &{{.Var}}[0])`,
				`if {{.Cache}} is None:
    {{.Proxy}} = np.PyArray_SimpleNewFromData(1, {{.Var}}_shape, {{.T.ElemKind}}, &{{.Var}}[0])
    {{.Cache}} = {{.Proxy}}`,
			}},
		},

		FromBind: map[string]FromBindEntry{
			"char":       {Tmpl: FromBindTemplate{Body: `ord({{.Var}})`}},
			"uchar":      {Tmpl: FromBindTemplate{Body: `ord({{.Var}})`}},
			"str": {Tmpl: FromBindTemplate{
				Body: `{{.Proxy}} = std_string(<char *> {{.Var}})`,
				Ret:  `{{.Proxy}}`,
			}},
			"int16":      {Tmpl: FromBindTemplate{Body: `<short> {{.Var}}`}},
			"int32":      {Tmpl: FromBindTemplate{Body: `<int> {{.Var}}`}},
			"int64":      {Tmpl: FromBindTemplate{Body: `<long long> {{.Var}}`}},
			"uint16":     {Tmpl: FromBindTemplate{Body: `<unsigned short> {{.Var}}`}},
			"uint32":     {Tmpl: FromBindTemplate{Body: `<unsigned int> {{.Var}}`}},
			"uint64":     {Tmpl: FromBindTemplate{Body: `<unsigned long long> {{.Var}}`}},
			"float32":    {Tmpl: FromBindTemplate{Body: `<float> {{.Var}}`}},
			"float64":    {Tmpl: FromBindTemplate{Body: `<double> {{.Var}}`}},
			"complex128": {Tmpl: FromBindTemplate{Body: `{{.T.Interop}}({{.Var}}.real, {{.Var}}.imag)`}},
			"bool":       {Tmpl: FromBindTemplate{Body: `<bint> {{.Var}}`}},
			"map": {Tmpl: FromBindTemplate{
				Body: `{{.Proxy}} = {{.T.BindingNoPred}}({{.Var}}, not isinstance({{.Var}}, {{.T.BindingNoPred}}))`,
				Ret:  `{{.Proxy}}.map_ptr[0]`,
			}},
			"set": {Tmpl: FromBindTemplate{
				Body: `{{.Proxy}} = {{.T.BindingNoPred}}({{.Var}}, not isinstance({{.Var}}, {{.T.BindingNoPred}}))`,
				Ret:  `{{.Proxy}}.set_ptr[0]`,
			}},
			"vector": {Tmpl: FromBindTemplate{
				Body: `{{.Proxy}} = {{.T.InteropNoPred}}(<size_t> len({{.Var}}))
for i, v in enumerate({{.Var}}):
    {{.Proxy}}[i] = v`,
				Ret: `{{.Proxy}}`,
			}},
		},

		ArgKinds: map[string][]ArgKind{},
		VarNS:    map[string]string{},

		ExtraTypesModule: "xdress_extra_types",
		DtypesModule:     "dtypes",
		ContainersModule: "stlcontainers",
	}
}

func setOf(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}
