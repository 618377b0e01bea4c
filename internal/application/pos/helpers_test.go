package pos_test

import "github.com/jhoicas/inventario-pos/internal/domain/repository"

func repositoryFilter(productID string) repository.MovementFilter {
	return repository.MovementFilter{ProductID: productID}
}
