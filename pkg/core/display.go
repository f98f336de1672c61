package core

// TypeDisplay describes how a connection type is presented: a human label,
// an icon glyph, and the conventional default port. Rendering by type is a
// lookup into this table rather than a switch, so adding an engine is a
// one-line change.
type TypeDisplay struct {
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	DefaultPort int    `json:"defaultPort"`
}

var typeDisplays = map[ConnectionType]TypeDisplay{
	TypeMySQL:    {Label: "MySQL", Icon: "🐬", DefaultPort: 3306},
	TypePostgres: {Label: "PostgreSQL", Icon: "🐘", DefaultPort: 5432},
	TypeSQLite:   {Label: "SQLite", Icon: "🪶", DefaultPort: 0},
	TypeMSSQL:    {Label: "SQL Server", Icon: "🗄", DefaultPort: 1433},
	TypeOracle:   {Label: "Oracle", Icon: "🔴", DefaultPort: 1521},
}

// DisplayFor returns the display descriptor for a connection type. Unknown
// types fall back to a generic descriptor with the raw tag as label.
func DisplayFor(t ConnectionType) TypeDisplay {
	if d, ok := typeDisplays[t]; ok {
		return d
	}
	return TypeDisplay{Label: string(t), Icon: "💾"}
}
