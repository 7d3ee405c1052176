package models

// Tables lists every model migrated at startup, parents before children.
var Tables = []interface{}{
	&Category{},
	&Product{},
	&Price{},
	&Banner{},
	&User{},
}
