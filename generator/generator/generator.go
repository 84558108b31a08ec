package generator

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed templates/*
	templates embed.FS
)

// Table is the class table read from YAML.
type Table struct {
	Package string  `yaml:"package"`
	Classes []Class `yaml:"classes"`
}

type Class struct {
	Name     string `yaml:"name"`
	Assembly string `yaml:"assembly"`

	// Kind is the native enumeration name of a builtin kind. Classes without
	// one are registered with the native core, together with their
	// properties.
	Kind string `yaml:"kind"`
	Base string `yaml:"base"`

	Properties []Property `yaml:"properties"`
	Attached   []Property `yaml:"attached"`
	Events     []string   `yaml:"events"`
}

type Property struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	ReadOnly bool   `yaml:"read_only"`
}

type goType struct {
	GoType      string
	ManagedType string
	ErrorValue  string
}

var valueTypes = map[string]goType{
	"Object":              {"any", "moonbridge.TypeObject", "nil"},
	"Bool":                {"bool", "moonbridge.TypeBool", "false"},
	"Int32":               {"int32", "moonbridge.TypeInt32", "0"},
	"Int64":               {"int64", "moonbridge.TypeInt64", "0"},
	"Double":              {"float64", "moonbridge.TypeDouble", "0"},
	"String":              {"string", "moonbridge.TypeString", `""`},
	"TimeSpan":            {"types.TimeSpan", "moonbridge.TypeTimeSpan", "0"},
	"Point":               {"types.Point", "moonbridge.TypePoint", "types.Point{}"},
	"Size":                {"types.Size", "moonbridge.TypeSize", "types.Size{}"},
	"Rect":                {"types.Rect", "moonbridge.TypeRect", "types.Rect{}"},
	"Thickness":           {"types.Thickness", "moonbridge.TypeThickness", "types.Thickness{}"},
	"CornerRadius":        {"types.CornerRadius", "moonbridge.TypeCornerRadius", "types.CornerRadius{}"},
	"Color":               {"types.Color", "moonbridge.TypeColor", "types.Color{}"},
	"Duration":            {"types.Duration", "moonbridge.TypeDuration", "types.Duration{}"},
	"GridLength":          {"types.GridLength", "moonbridge.TypeGridLength", "types.GridLength{}"},
	"Matrix":              {"types.Matrix", "moonbridge.TypeMatrix", "types.Matrix{}"},
	"Uri":                 {"types.Uri", "moonbridge.TypeUri", "types.Uri{}"},
	"XmlLanguage":         {"types.XmlLanguage", "moonbridge.TypeXmlLanguage", `""`},
	"FontFamily":          {"types.FontFamily", "moonbridge.TypeFontFamily", "types.FontFamily{}"},
	"FontWeight":          {"types.FontWeight", "moonbridge.TypeFontWeight", "0"},
	"FontStyle":           {"types.FontStyle", "moonbridge.TypeFontStyle", "0"},
	"FontStretch":         {"types.FontStretch", "moonbridge.TypeFontStretch", "0"},
	"CursorType":          {"types.CursorType", "moonbridge.TypeCursorType", "0"},
	"Visibility":          {"types.Visibility", "moonbridge.TypeVisibility", "0"},
	"HorizontalAlignment": {"types.HorizontalAlignment", "moonbridge.TypeHorizontalAlignment", "0"},
}

// kindIdents maps the builtin object kinds to their exported constant.
var kindIdents = map[string]string{
	"DEPENDENCY_OBJECT": "KindDependencyObject",
	"COLLECTION":        "KindCollection",
	"UIELEMENT":         "KindUIElement",
	"FRAMEWORKELEMENT":  "KindFrameworkElement",
	"CONTROL":           "KindControl",
	"USERCONTROL":       "KindUserControl",
	"PANEL":             "KindPanel",
	"CANVAS":            "KindCanvas",
}

var (
	// Classes may only derive from each other or from DependencyObject.
	rootBase = "DependencyObject"

	goNameCaser = cases.Title(language.Und, cases.NoLower)
)

func generateGoName(name string) string {
	return goNameCaser.String(name)
}

// ParseTable reads a class table.
func ParseTable(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("could not parse class table: %w", err)
	}
	return &table, nil
}

// Generate reads the class table at input and writes the generated accessors
// to output. pkg overrides the package name of the table when set.
func Generate(input, output, pkg string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	table, err := ParseTable(data)
	if err != nil {
		return err
	}
	if pkg != "" {
		table.Package = pkg
	}

	source, err := GenerateSource(table)
	if err != nil {
		return err
	}

	return os.WriteFile(output, source, 0644)
}

// GenerateSource renders the accessors of table as formatted Go source.
func GenerateSource(table *Table) ([]byte, error) {
	data, err := buildTemplateData(table)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("").
		Funcs(TemplateFunctions).
		ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	return ExecuteTemplate(tmpl, "classes.tmpl", path.Join(".", table.Package+"_gen.go"), data)
}

func buildTemplateData(table *Table) (TemplateData, error) {
	data := TemplateData{
		Pkg:     table.Package,
		Classes: []TemplateClass{},
	}
	if data.Pkg == "" {
		return data, fmt.Errorf("class table has no package name")
	}

	// Classes are emitted bases first so the output reads top down.
	classes := map[string]*Class{}
	for i := range table.Classes {
		c := &table.Classes[i]
		if c.Name == "" {
			return data, fmt.Errorf("class %d has no name", i)
		}
		if _, ok := classes[c.Name]; ok {
			return data, fmt.Errorf("class %s is declared twice", c.Name)
		}
		classes[c.Name] = c
	}

	done := map[string]bool{}
	visiting := map[string]bool{}
	var visit func(c *Class) error
	visit = func(c *Class) error {
		if done[c.Name] {
			return nil
		}
		if visiting[c.Name] {
			return fmt.Errorf("class %s derives from itself", c.Name)
		}
		visiting[c.Name] = true

		class := TemplateClass{
			Name:     c.Name,
			GoName:   generateGoName(c.Name),
			Assembly: c.Assembly,
			BaseType: "moonbridge.TypeDependencyObject",
			Events:   c.Events,
		}

		switch base, ok := classes[c.Base]; {
		case ok:
			if err := visit(base); err != nil {
				return err
			}
			class.BaseGoName = generateGoName(base.Name)
			class.BaseType = "Type" + class.BaseGoName
		case c.Base == "" || c.Base == rootBase:
		default:
			return fmt.Errorf("class %s derives from unknown class %s", c.Name, c.Base)
		}

		if c.Kind != "" {
			ident, ok := kindIdents[c.Kind]
			if !ok {
				return fmt.Errorf("class %s has unknown builtin kind %s", c.Name, c.Kind)
			}
			class.KindIdent = ident
		}

		var err error
		if class.Properties, err = buildProperties(c, c.Properties, classes); err != nil {
			return err
		}
		if class.Attached, err = buildProperties(c, c.Attached, classes); err != nil {
			return err
		}
		class.Registers = class.KindIdent == "" && (len(class.Properties) > 0 || len(class.Attached) > 0)
		if class.Registers {
			for _, p := range append(class.Properties, class.Attached...) {
				if strings.HasPrefix(p.ManagedType, "Type") {
					return fmt.Errorf("class %s registers its properties and cannot declare %s of class type", c.Name, p.Name)
				}
			}
		}

		visiting[c.Name] = false
		done[c.Name] = true
		data.Classes = append(data.Classes, class)
		return nil
	}

	for i := range table.Classes {
		if err := visit(&table.Classes[i]); err != nil {
			return data, err
		}
	}

	return data, nil
}

func buildProperties(c *Class, props []Property, classes map[string]*Class) ([]TemplateClassProperty, error) {
	out := make([]TemplateClassProperty, 0, len(props))
	seen := map[string]bool{}
	for _, p := range props {
		if p.Name == "" {
			return nil, fmt.Errorf("class %s has a property without a name", c.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("class %s declares %s twice", c.Name, p.Name)
		}
		seen[p.Name] = true

		prop := TemplateClassProperty{
			Name:     p.Name,
			GoName:   generateGoName(p.Name),
			ReadOnly: p.ReadOnly,
		}

		if vt, ok := valueTypes[p.Type]; ok {
			prop.GoType = vt.GoType
			prop.ManagedType = vt.ManagedType
			prop.ErrorValue = vt.ErrorValue
		} else if ref, ok := classes[p.Type]; ok {
			prop.GoType = "moonbridge.Object"
			prop.ManagedType = "Type" + generateGoName(ref.Name)
			prop.ErrorValue = "nil"
		} else if p.Type == rootBase {
			prop.GoType = "moonbridge.Object"
			prop.ManagedType = "moonbridge.TypeDependencyObject"
			prop.ErrorValue = "nil"
		} else {
			return nil, fmt.Errorf("property %s.%s has unknown type %q", c.Name, p.Name, p.Type)
		}

		out = append(out, prop)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].GoName < out[j].GoName
	})
	return out, nil
}

var TemplateFunctions = template.FuncMap{
	"quote": strconv.Quote,
}

// ExecuteTemplate renders name and formats the result, fixing up imports the
// output does not use.
func ExecuteTemplate(tmpl *template.Template, name string, filename string, data TemplateData) ([]byte, error) {
	writer := bytes.NewBuffer(nil)
	err := tmpl.ExecuteTemplate(writer, name, data)
	if err != nil {
		return nil, err
	}

	fileBytes := writer.Bytes()
	formattedSource, err := imports.Process(filename, fileBytes, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("could not format %s: %w\nsource:\n%s", name, err, fileBytes)
	}
	return formattedSource, nil
}

type TemplateData struct {
	Pkg     string
	Classes []TemplateClass
}

type TemplateClass struct {
	Name       string
	GoName     string
	Assembly   string
	KindIdent  string
	BaseGoName string
	BaseType   string
	Registers  bool
	Properties []TemplateClassProperty
	Attached   []TemplateClassProperty
	Events     []string
}

type TemplateClassProperty struct {
	Name        string
	GoName      string
	GoType      string
	ManagedType string
	ErrorValue  string
	ReadOnly    bool
}
