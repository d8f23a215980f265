/*
Package template parses HTML templates from a merged filesystem.

Templates are looked up first in the filesystem a [Parse] is configured with,
then in those embedded in this package under tmpl/.
An application overrides any page by shipping a file at the same path.
*/
package template
