package query

// Resource 缓存失效的粒度：列表 + 单条
type Resource string

const (
	Products Resource = "product"
	Users    Resource = "user"
)

// ListKey products / users
func ListKey(r Resource) string { return string(r) + "s" }

// DetailKey product:<id> / user:<id>
func DetailKey(r Resource, id string) string { return string(r) + ":" + id }

// 变更名，同一会话同一目标同时只允许一个
const (
	MutCreateProduct  = "create_product"
	MutUpdateProduct  = "update_product"
	MutArchiveProduct = "archive_product"
	MutCreateUser     = "create_user"
	MutUpdateUser     = "update_user"
	MutArchiveUser    = "archive_user"
)

// Target 带 id 的变更名，如 update_product:<id>
func Target(mut, id string) string {
	if id == "" {
		return mut
	}
	return mut + ":" + id
}
