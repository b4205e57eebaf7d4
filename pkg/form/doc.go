// Package form binds one record of a model to an HTML form.
//
// A Manager is built from a Definition: it reads the column metadata of the
// record, derives one field.Spec per column, lets a setup hook adjust the
// field set and configures every remaining field. It then renders the form,
// accepts submitted input, validates it against the record and the local
// rules, and saves the record.
//
//	m, err := form.New(ctx, form.Definition{Name: "post", Model: "posts"},
//		form.WithRepository(repo),
//		form.WithRecordID(id),
//		form.WithRequest(r),
//	)
//	if ok, _ := m.Submit(ctx); ok {
//		_, err = m.SaveObject(ctx)
//	}
//	html, err := m.Render(ctx)
//
// Managers are request scoped and not safe for concurrent use.
package form
