package grpc

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/money"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	productServiceName    = "catalog.v1.ProductService"
	getProductsInfoMethod = "/" + productServiceName + "/GetProductsInfo"
	maxProductsPerRequest = 500
)

// ProductServiceServer отдаёт карточки продуктов внутренним сервисам.
// Сообщения — google.protobuf.Struct:
// запрос {"ids": [...]}, ответ {"products": [...], "products_not_found": [...]}.
type ProductServiceServer interface {
	GetProductsInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&productServiceDesc, srv)
}

var productServiceDesc = grpc.ServiceDesc{
	ServiceName: productServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProductsInfo",
			Handler:    getProductsInfoHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/product_service.proto",
}

func getProductsInfoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ProductServiceServer).GetProductsInfo(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getProductsInfoMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProductServiceServer).GetProductsInfo(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type ProductService struct {
	prUC   usecase.ProductUC
	logger logger.Logger
}

func NewProductService(prUC usecase.ProductUC, logger logger.Logger) *ProductService {
	return &ProductService{prUC: prUC, logger: logger}
}

func (g *ProductService) GetProductsInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetProductsInfo"

	ids, err := idsFromRequest(req)
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := g.prUC.GetProducts(ctx, usecase.NewGetProductsReq(ids))
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	out, err := structpb.NewStruct(map[string]any{
		"products":           toArrGRPCProduct(res.Products),
		"products_not_found": toAnySlice(res.NotFoundProducts),
	})
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}

	return out, nil
}

func idsFromRequest(req *structpb.Struct) ([]string, error) {
	list := req.GetFields()["ids"].GetListValue()
	if list == nil || len(list.GetValues()) == 0 {
		return nil, e.Invalid("ids", "must be a non-empty list")
	}

	if len(list.GetValues()) > maxProductsPerRequest {
		return nil, e.Invalid("ids", "at most %d ids per request", maxProductsPerRequest)
	}

	ids := make([]string, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, e.Invalid("ids", "must contain strings only")
		}
		ids = append(ids, s.StringValue)
	}

	return ids, nil
}

func toGRPCProduct(pr *domain.Product) map[string]any {
	return map[string]any{
		"id":              pr.ID,
		"name":            pr.Name,
		"description":     pr.Description,
		"price":           money.ToFloat(pr.Price),
		"rating":          pr.Rating,
		"category":        pr.CategoryName,
		"tier":            pr.Tier,
		"image":           pr.Image,
		"additional_info": pr.AdditionalInfo,
		"review":          pr.Review,
		"created_at":      pr.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toArrGRPCProduct(products []domain.Product) []any {
	res := make([]any, 0, len(products))
	for i := range products {
		res = append(res, toGRPCProduct(&products[i]))
	}
	return res
}

func toAnySlice(ss []string) []any {
	res := make([]any, 0, len(ss))
	for _, s := range ss {
		res = append(res, s)
	}
	return res
}
