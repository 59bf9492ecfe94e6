package proto

import (
	"fmt"

	protobuf "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

const structTypeName = ".google.protobuf.Struct"

// File is the descriptor of certledger/ledger.proto, registered in
// protoregistry.GlobalFiles so server reflection can describe the service.
var File protoreflect.FileDescriptor

func init() {
	fd, err := buildFile(protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", serviceDescSource, err))
	}
	File = fd
}

func buildFile(resolver protodesc.Resolver) (protoreflect.FileDescriptor, error) {
	file := &descriptorpb.FileDescriptorProto{
		Name:       protobuf.String(serviceDescSource),
		Package:    protobuf.String("certledger"),
		Dependency: []string{structpb.File_google_protobuf_struct_proto.Path()},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: protobuf.String("Ledger"),
			Method: []*descriptorpb.MethodDescriptorProto{{
				Name:       protobuf.String(invokeMethodName),
				InputType:  protobuf.String(structTypeName),
				OutputType: protobuf.String(structTypeName),
			}},
		}},
		Options: &descriptorpb.FileOptions{
			GoPackage: protobuf.String("github.com/dtroode/certledger/internal/api/grpc/proto"),
		},
		Syntax: protobuf.String("proto3"),
	}

	fd, err := protodesc.NewFile(file, resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s descriptor: %w", serviceDescSource, err)
	}
	return fd, nil
}
